package brackets

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition is wrapped by every error caused by an invalid engine input.
	ErrPrecondition = errors.New("precondition violated")

	ErrUnknownPlayer = fmt.Errorf("%w: unknown player", ErrPrecondition)
	ErrInvalidScore  = fmt.Errorf("%w: score must be a non-negative integer", ErrPrecondition)
	ErrMatchIndex    = fmt.Errorf("%w: match index out of range", ErrPrecondition)
	ErrStage         = fmt.Errorf("%w: unknown knockout stage", ErrPrecondition)

	ErrPlayersUnknown = errors.New("match participants are not known yet")
	ErrNoBracket      = errors.New("at least 4 qualified players are required for a knockout bracket")
)

// pendingPrefix starts every placeholder label. Player names must not use it,
// otherwise they would read back as placeholders.
const pendingPrefix = "Winner of "

// IsReservedName reports whether name would be decoded as a placeholder.
func IsReservedName(name string) bool {
	return strings.HasPrefix(name, pendingPrefix)
}

type SlotKind int

const (
	SlotEmpty SlotKind = iota
	SlotPending
	SlotPlayer
)

// Slot is one side of a match.
//
// A slot is either empty (the feeder match has not produced anything yet),
// pending (a placeholder such as "Winner of Semifinal 1") or a resolved player.
// On the wire it is a plain string or null, which keeps stored records
// readable by older clients.
type Slot struct {
	Kind  SlotKind
	Value string
}

func PlayerSlot(name string) Slot {
	return Slot{Kind: SlotPlayer, Value: name}
}

func PendingSlot(label string) Slot {
	return Slot{Kind: SlotPending, Value: label}
}

func EmptySlot() Slot {
	return Slot{}
}

func (s Slot) IsPlayer() bool {
	return s.Kind == SlotPlayer
}

// Player returns the player name, or "" if the slot is not resolved.
func (s Slot) Player() string {
	if s.Kind != SlotPlayer {
		return ""
	}
	return s.Value
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotPlayer, SlotPending:
		return s.Value
	default:
		return "TBD"
	}
}

func (s Slot) MarshalJSON() ([]byte, error) {
	if s.Kind == SlotEmpty {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = EmptySlot()
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("slot must be a string or null: %w", err)
	}
	switch {
	case v == "":
		*s = EmptySlot()
	case IsReservedName(v):
		*s = PendingSlot(v)
	default:
		*s = PlayerSlot(v)
	}
	return nil
}

// Match is a single fixture. Score1 and Score2 are either both nil or both set.
type Match struct {
	P1     Slot `json:"p1"`
	P2     Slot `json:"p2"`
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
	Round  int  `json:"round,omitempty"`
}

func NewMatch(p1, p2 Slot) Match {
	return Match{P1: p1, P2: p2}
}

func (m *Match) SetScore(score1, score2 int) error {
	if score1 < 0 || score2 < 0 {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidScore, score1, score2)
	}
	m.Score1 = &score1
	m.Score2 = &score2
	return nil
}

func (m *Match) ClearScore() {
	m.Score1 = nil
	m.Score2 = nil
}

func (m Match) Completed() bool {
	return m.Score1 != nil && m.Score2 != nil
}

// Winner returns the winning slot of a completed match between two known players.
// An exact tie goes to P1.
func (m Match) Winner() (Slot, bool) {
	if !m.Completed() || !PlayersKnown(m) {
		return EmptySlot(), false
	}
	if *m.Score1 >= *m.Score2 {
		return m.P1, true
	}
	return m.P2, true
}

// PlayersKnown reports whether both sides of the match are concrete players.
// Scores must not be recorded before that.
func PlayersKnown(m Match) bool {
	return m.P1.IsPlayer() && m.P2.IsPlayer()
}

func (m Match) String() string {
	var sb strings.Builder
	sb.WriteString(m.P1.String())
	sb.WriteString(" vs ")
	sb.WriteString(m.P2.String())
	if m.Completed() {
		sb.WriteString(fmt.Sprintf(" %d-%d", *m.Score1, *m.Score2))
	}
	return sb.String()
}

// pendingWinnerOf is the placeholder label shown in place of a play-in winner.
func pendingWinnerOf(m Match) Slot {
	return PendingSlot(fmt.Sprintf("Winner of %s vs %s", m.P1.Value, m.P2.Value))
}
