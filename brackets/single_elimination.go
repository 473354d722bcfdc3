package brackets

import (
	"fmt"
)

type Stage string

const (
	StagePlayins       Stage = "playins"
	StageQuarterfinals Stage = "qfs"
	StageSemifinals    Stage = "sfs"
	StageFinal         Stage = "final"
)

// ParseStage accepts the stage names used in URLs and stored records.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StagePlayins, StageQuarterfinals, StageSemifinals, StageFinal:
		return Stage(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrStage, s)
}

// MatchRef addresses one knockout match.
type MatchRef struct {
	Stage Stage `json:"stage"`
	Index int   `json:"index"`
}

func (r MatchRef) String() string {
	if r.Stage == StageFinal {
		return string(StageFinal)
	}
	return fmt.Sprintf("%s[%d]", r.Stage, r.Index)
}

// Bracket is the knockout part of a tournament.
//
// Size is the number of standings rows the bracket was built from and Seeds
// lists their names in rank order at that moment. Both are frozen once the
// bracket exists; only slots and scores change afterwards.
type Bracket struct {
	Size    int      `json:"size"`
	Seeds   []string `json:"seeds"`
	Playins []Match  `json:"playins,omitempty"`
	QFs     []Match  `json:"qfs,omitempty"`
	SFs     []Match  `json:"sfs,omitempty"`
	Final   Match    `json:"final"`
}

// SeedsUsed is the field-size table: how many of n qualified players actually
// enter the knockout stage. Lower seeds beyond that are dropped.
func SeedsUsed(n int) int {
	switch {
	case n < 4:
		return 0
	case n == 4, n == 5:
		return 4
	case n == 6:
		return 5
	case n == 7, n == 8:
		return 7
	case n == 9, n == 10:
		return 8
	case n == 11:
		return 10
	default:
		return 12
	}
}

// Shape is the number of seeds taking part in this bracket.
func (b *Bracket) Shape() int {
	return SeedsUsed(b.Size)
}

// Stage returns the match list of a stage. For the final this is a
// one-element copy; use Match to mutate it.
func (b *Bracket) Stage(stage Stage) []Match {
	switch stage {
	case StagePlayins:
		return b.Playins
	case StageQuarterfinals:
		return b.QFs
	case StageSemifinals:
		return b.SFs
	case StageFinal:
		return []Match{b.Final}
	}
	return nil
}

// Match returns a pointer to the referenced match so it can be mutated in place.
func (b *Bracket) Match(ref MatchRef) (*Match, error) {
	if ref.Stage == StageFinal {
		if ref.Index != 0 {
			return nil, fmt.Errorf("%w: final has a single match, got index %d", ErrMatchIndex, ref.Index)
		}
		return &b.Final, nil
	}

	var matches []Match
	switch ref.Stage {
	case StagePlayins:
		matches = b.Playins
	case StageQuarterfinals:
		matches = b.QFs
	case StageSemifinals:
		matches = b.SFs
	default:
		return nil, fmt.Errorf("%w: %q", ErrStage, ref.Stage)
	}
	if ref.Index < 0 || ref.Index >= len(matches) {
		return nil, fmt.Errorf("%w: %s has %d matches, got index %d", ErrMatchIndex, ref.Stage, len(matches), ref.Index)
	}
	return &matches[ref.Index], nil
}

// Champion returns the winner of the final once it has been played.
func (b *Bracket) Champion() (string, bool) {
	w, ok := b.Final.Winner()
	if !ok {
		return "", false
	}
	return w.Player(), true
}

// ComputeKnockoutBracket builds the bracket from standings already sorted by
// points and goal difference. Fewer than 4 rows yield ErrNoBracket.
func ComputeKnockoutBracket(sorted []Standing) (*Bracket, error) {
	n := len(sorted)
	if n < 4 {
		return nil, fmt.Errorf("%w: got %d", ErrNoBracket, n)
	}

	seeds := make([]string, 0, n)
	for _, s := range sorted {
		seeds = append(seeds, s.Name)
	}

	b := &Bracket{
		Size:  n,
		Seeds: seeds,
		Final: NewMatch(PendingSlot("Winner of Semifinal 1"), PendingSlot("Winner of Semifinal 2")),
	}

	use := seeds[:SeedsUsed(n)]
	seed := func(i int) Slot { return PlayerSlot(use[i]) }
	pair := func(i, j int) Match { return NewMatch(seed(i), seed(j)) }
	empty := func() Match { return NewMatch(EmptySlot(), EmptySlot()) }

	switch len(use) {
	case 4:
		b.SFs = []Match{pair(0, 3), pair(1, 2)}
	case 5:
		b.Playins = []Match{pair(3, 4)}
		b.SFs = []Match{
			NewMatch(seed(0), pendingWinnerOf(b.Playins[0])),
			pair(1, 2),
		}
	case 7:
		b.QFs = []Match{pair(1, 6), pair(2, 5), pair(3, 4)}
		b.SFs = []Match{NewMatch(seed(0), EmptySlot()), empty()}
	case 8:
		b.QFs = []Match{pair(0, 7), pair(1, 6), pair(2, 5), pair(3, 4)}
		b.SFs = []Match{empty(), empty()}
	case 10:
		b.Playins = []Match{pair(6, 9), pair(7, 8)}
		b.QFs = []Match{
			NewMatch(seed(0), pendingWinnerOf(b.Playins[1])),
			NewMatch(seed(1), pendingWinnerOf(b.Playins[0])),
			pair(2, 5),
			pair(3, 4),
		}
		b.SFs = []Match{empty(), empty()}
	case 12:
		b.Playins = []Match{pair(5, 10), pair(6, 9), pair(7, 8), pair(11, 4)}
		b.QFs = []Match{
			NewMatch(seed(0), pendingWinnerOf(b.Playins[2])),
			NewMatch(seed(1), pendingWinnerOf(b.Playins[1])),
			NewMatch(seed(2), pendingWinnerOf(b.Playins[0])),
			NewMatch(seed(3), pendingWinnerOf(b.Playins[3])),
		}
		b.SFs = []Match{empty(), empty()}
	default:
		return nil, fmt.Errorf("unsupported knockout field of %d seeds", len(use))
	}

	return b, nil
}
