package brackets

import (
	"fmt"
	"sort"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// Standing is one player's row in the group table.
type Standing struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	GD     int    `json:"gd"`
}

func NewStandings(players []string) []Standing {
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{Name: p})
	}
	return standings
}

// ApplyResult adds the effect of a completed match to the standings.
// Incomplete matches are ignored.
func ApplyResult(m Match, standings []Standing) error {
	return applyResult(m, standings, 1)
}

// RevertResult removes exactly what ApplyResult added for the same match.
func RevertResult(m Match, standings []Standing) error {
	return applyResult(m, standings, -1)
}

func applyResult(m Match, standings []Standing, sign int) error {
	if !m.Completed() {
		return nil
	}

	// Both rows are resolved before anything is touched so a bad lookup
	// leaves the table unchanged.
	i1, err := findStanding(standings, m.P1)
	if err != nil {
		return err
	}
	i2, err := findStanding(standings, m.P2)
	if err != nil {
		return err
	}

	s1, s2 := *m.Score1, *m.Score2
	switch {
	case s1 > s2:
		standings[i1].Points += sign * pointsWin
	case s2 > s1:
		standings[i2].Points += sign * pointsWin
	default:
		standings[i1].Points += sign * pointsDraw
		standings[i2].Points += sign * pointsDraw
	}
	standings[i1].GD += sign * (s1 - s2)
	standings[i2].GD += sign * (s2 - s1)

	return nil
}

func findStanding(standings []Standing, slot Slot) (int, error) {
	if !slot.IsPlayer() {
		return -1, fmt.Errorf("%w: slot %q is not a player", ErrUnknownPlayer, slot.String())
	}
	for i := range standings {
		if standings[i].Name == slot.Value {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no standing for %q", ErrUnknownPlayer, slot.Value)
}

// SortStandings returns a copy ordered by points, then goal difference, both
// descending. Equal rows keep their relative order.
func SortStandings(standings []Standing) []Standing {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].GD > sorted[j].GD
	})
	return sorted
}
