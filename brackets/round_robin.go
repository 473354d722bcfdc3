package brackets

import (
	"math/rand"
)

// DrawGroup returns a shuffled copy of players. The argument is not modified.
// A nil rng falls back to the global source.
func DrawGroup(players []string, rng *rand.Rand) []string {
	group := make([]string, len(players))
	copy(group, players)

	swap := func(i, j int) { group[i], group[j] = group[j], group[i] }
	if rng == nil {
		rand.Shuffle(len(group), swap)
	} else {
		rng.Shuffle(len(group), swap)
	}
	return group
}

// ScheduleRoundRobin creates a single round-robin schedule using the circle
// method: the first player stays fixed while the others rotate by one position
// each round. For an odd number of players a bye is added; whoever is paired
// with the bye sits the round out and no match is created for it.
//
// Round assignment only depends on the order of players.
func ScheduleRoundRobin(players []string) []Match {
	if len(players) == 0 {
		return []Match{}
	}

	const bye = -1
	slots := make([]int, 0, len(players)+1)
	for i := range players {
		slots = append(slots, i)
	}
	if len(slots)%2 == 1 {
		slots = append(slots, bye)
	}

	n := len(slots)
	numRounds := n - 1
	matches := make([]Match, 0, len(players)*(len(players)-1)/2)

	for round := 0; round < numRounds; round++ {
		for i := 0; i < n/2; i++ {
			a := slots[circleIndex(i, n, round)]
			b := slots[circleIndex(n-1-i, n, round)]
			if a == bye || b == bye {
				continue
			}
			m := NewMatch(PlayerSlot(players[a]), PlayerSlot(players[b]))
			m.Round = round + 1
			matches = append(matches, m)
		}
	}

	return matches
}

// circleIndex maps a seat at the table to the slot sitting there in the given
// round. Seat 0 never moves, the remaining seats rotate one step per round.
func circleIndex(seat, length, round int) int {
	if seat == 0 {
		return 0
	}
	seat -= 1
	seat -= round
	seat += length - 1
	seat %= length - 1
	return seat + 1
}
