package brackets

import (
	"fmt"
)

// Record is everything the host stores for one tournament. It is persisted
// as a single JSON document and mutated only through its methods.
type Record struct {
	Players   []string   `json:"players"`
	Group     []string   `json:"group"`
	Schedule  []Match    `json:"schedule"`
	Standings []Standing `json:"standings"`
	Knockout  *Bracket   `json:"knockout,omitempty"`
}

func (r *Record) groupMatch(index int) (*Match, error) {
	if index < 0 || index >= len(r.Schedule) {
		return nil, fmt.Errorf("%w: schedule has %d matches, got index %d", ErrMatchIndex, len(r.Schedule), index)
	}
	return &r.Schedule[index], nil
}

// RecordGroupScore stores a group-stage result, replacing any previous result
// of the same match in the standings.
func (r *Record) RecordGroupScore(index, score1, score2 int) error {
	m, err := r.groupMatch(index)
	if err != nil {
		return err
	}

	next := *m
	if err := next.SetScore(score1, score2); err != nil {
		return err
	}
	if _, err := findStanding(r.Standings, m.P1); err != nil {
		return err
	}
	if _, err := findStanding(r.Standings, m.P2); err != nil {
		return err
	}

	if err := RevertResult(*m, r.Standings); err != nil {
		return err
	}
	*m = next
	return ApplyResult(*m, r.Standings)
}

// ClearGroupScore removes a recorded result and its effect on the standings.
func (r *Record) ClearGroupScore(index int) error {
	m, err := r.groupMatch(index)
	if err != nil {
		return err
	}
	if err := RevertResult(*m, r.Standings); err != nil {
		return err
	}
	m.ClearScore()
	return nil
}

// Rounds groups the schedule by round number, in round order.
func (r *Record) Rounds() [][]Match {
	var rounds [][]Match
	for _, m := range r.Schedule {
		for len(rounds) < m.Round {
			rounds = append(rounds, nil)
		}
		if m.Round < 1 {
			continue
		}
		rounds[m.Round-1] = append(rounds[m.Round-1], m)
	}
	return rounds
}

func (r *Record) SortedStandings() []Standing {
	return SortStandings(r.Standings)
}

// GroupComplete reports whether every group match has a result.
func (r *Record) GroupComplete() bool {
	for _, m := range r.Schedule {
		if !m.Completed() {
			return false
		}
	}
	return true
}

// EnsureKnockout returns the knockout bracket, building it from the current
// standings the first time. Later calls only refresh progress; the seeds never
// change once the bracket exists. The boolean is true when the bracket was
// created by this call.
func (r *Record) EnsureKnockout() (*Bracket, bool, error) {
	if r.Knockout != nil {
		UpdateKnockoutProgress(r.Knockout)
		return r.Knockout, false, nil
	}

	b, err := ComputeKnockoutBracket(r.SortedStandings())
	if err != nil {
		return nil, false, err
	}
	r.Knockout = b
	return b, true, nil
}

// knockoutMatch resolves ref, building the bracket from the current standings
// if nobody has asked for it yet.
func (r *Record) knockoutMatch(ref MatchRef) (*Match, error) {
	b, _, err := r.EnsureKnockout()
	if err != nil {
		return nil, err
	}
	return b.Match(ref)
}

// RecordKnockoutScore stores a knockout result and advances winners.
// Both participants must be known players. A missing bracket is built first,
// so on error r.Knockout may still have been set.
func (r *Record) RecordKnockoutScore(ref MatchRef, score1, score2 int) error {
	m, err := r.knockoutMatch(ref)
	if err != nil {
		return err
	}
	if !PlayersKnown(*m) {
		return fmt.Errorf("%w: %s is %s", ErrPlayersUnknown, ref, m)
	}
	if err := m.SetScore(score1, score2); err != nil {
		return err
	}
	UpdateKnockoutProgress(r.Knockout)
	return nil
}

// ClearKnockoutScore removes a knockout result; slots fed by it become
// unresolved again. Like RecordKnockoutScore it builds a missing bracket.
func (r *Record) ClearKnockoutScore(ref MatchRef) error {
	m, err := r.knockoutMatch(ref)
	if err != nil {
		return err
	}
	m.ClearScore()
	UpdateKnockoutProgress(r.Knockout)
	return nil
}

func (r *Record) Champion() (string, bool) {
	if r.Knockout == nil {
		return "", false
	}
	return r.Knockout.Champion()
}
