package brackets

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerNames(n int) []string {
	names := make([]string, 0, n)
	for i := range n {
		names = append(names, fmt.Sprintf("P%d", i))
	}
	return names
}

func TestDrawGroupIsPermutation(t *testing.T) {
	players := playerNames(9)
	original := append([]string(nil), players...)

	group := DrawGroup(players, rand.New(rand.NewSource(42)))

	assert.Equal(t, original, players, "input must not be modified")
	assert.ElementsMatch(t, players, group)
}

func TestDrawGroupSmallInputs(t *testing.T) {
	assert.Empty(t, DrawGroup(nil, nil))
	assert.Equal(t, []string{"solo"}, DrawGroup([]string{"solo"}, nil))
}

func TestDrawGroupDeterministicWithSeed(t *testing.T) {
	players := playerNames(8)
	a := DrawGroup(players, rand.New(rand.NewSource(7)))
	b := DrawGroup(players, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestScheduleRoundRobinCompleteness(t *testing.T) {
	for n := 0; n <= 13; n++ {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			players := playerNames(n)
			matches := ScheduleRoundRobin(players)

			require.Len(t, matches, n*(n-1)/2)

			pairs := make(map[string]bool)
			perRound := make(map[int]map[string]bool)
			for _, m := range matches {
				require.True(t, PlayersKnown(m))
				assert.Nil(t, m.Score1)
				assert.Nil(t, m.Score2)
				assert.GreaterOrEqual(t, m.Round, 1)

				pair := []string{m.P1.Value, m.P2.Value}
				sort.Strings(pair)
				key := pair[0] + "-" + pair[1]
				assert.False(t, pairs[key], "pair %s scheduled twice", key)
				pairs[key] = true

				if perRound[m.Round] == nil {
					perRound[m.Round] = make(map[string]bool)
				}
				for _, p := range pair {
					assert.False(t, perRound[m.Round][p], "%s plays twice in round %d", p, m.Round)
					perRound[m.Round][p] = true
				}
			}

			expectedRounds := 0
			if n > 1 {
				expectedRounds = n - 1
				if n%2 == 1 {
					expectedRounds = n
				}
			}
			assert.Len(t, perRound, expectedRounds)
		})
	}
}

func TestScheduleRoundRobinFirstRounds(t *testing.T) {
	matches := ScheduleRoundRobin([]string{"A", "B", "C", "D"})

	got := make([]string, 0, len(matches))
	for _, m := range matches {
		got = append(got, fmt.Sprintf("%d:%s-%s", m.Round, m.P1.Value, m.P2.Value))
	}
	assert.Equal(t, []string{
		"1:A-D", "1:B-C",
		"2:A-C", "2:D-B",
		"3:A-B", "3:C-D",
	}, got)
}

func TestScheduleRoundRobinOddSkipsBye(t *testing.T) {
	matches := ScheduleRoundRobin([]string{"A", "B", "C"})

	require.Len(t, matches, 3)
	for _, m := range matches {
		assert.True(t, m.P1.IsPlayer())
		assert.True(t, m.P2.IsPlayer())
	}
	// A sits out in round 1 against the bye.
	assert.Equal(t, "B", matches[0].P1.Value)
	assert.Equal(t, "C", matches[0].P2.Value)
	assert.Equal(t, 1, matches[0].Round)
}

func TestScheduleRoundRobinDuplicatesNotValidated(t *testing.T) {
	matches := ScheduleRoundRobin([]string{"A", "A"})
	require.Len(t, matches, 1)
	assert.Equal(t, "A", matches[0].P1.Value)
	assert.Equal(t, "A", matches[0].P2.Value)
}
