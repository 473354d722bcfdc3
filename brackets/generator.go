package brackets

import (
	"math/rand"
)

// NewRecord draws the players into a single group and prepares its
// round-robin schedule and an empty standings table.
func NewRecord(players []string, rng *rand.Rand) *Record {
	entered := make([]string, len(players))
	copy(entered, players)

	group := DrawGroup(entered, rng)

	return &Record{
		Players:   entered,
		Group:     group,
		Schedule:  ScheduleRoundRobin(group),
		Standings: NewStandings(group),
	}
}
