package brackets

import (
	"sort"
)

// UpdateKnockoutProgress moves confirmed winners into the slots they feed.
//
// Every downstream slot is derived again from its feeders, stage by stage, so
// the pass can run after any change: slots with unchanged feeders end up with
// the same value, edited results overwrite stale winners, and a cleared result
// puts the slot back to its unresolved state.
func UpdateKnockoutProgress(b *Bracket) {
	if b == nil {
		return
	}
	shape := b.Shape()

	playinWinners := winners(b.Playins)
	switch shape {
	case 5:
		if len(b.Playins) == 1 && len(b.SFs) == 2 {
			b.SFs[0].P2 = advance(b.Playins[0], playinWinners[0])
		}
	case 10:
		if len(b.Playins) == 2 && len(b.QFs) == 4 {
			b.QFs[0].P2 = advance(b.Playins[1], playinWinners[1])
			b.QFs[1].P2 = advance(b.Playins[0], playinWinners[0])
		}
	case 12:
		if len(b.Playins) == 4 && len(b.QFs) == 4 {
			b.QFs[0].P2 = advance(b.Playins[2], playinWinners[2])
			b.QFs[1].P2 = advance(b.Playins[1], playinWinners[1])
			b.QFs[2].P2 = advance(b.Playins[0], playinWinners[0])
			b.QFs[3].P2 = advance(b.Playins[3], playinWinners[3])
		}
	}

	qfWinners := winners(b.QFs)
	switch {
	case shape == 7 && len(b.QFs) == 3 && len(b.SFs) == 2:
		pairSeedAware(b, qfWinners)
	case shape >= 8 && len(b.QFs) == 4 && len(b.SFs) == 2:
		fillSemi(&b.SFs[0], qfWinners[0], qfWinners[3])
		fillSemi(&b.SFs[1], qfWinners[1], qfWinners[2])
	}

	sfWinners := winners(b.SFs)
	if len(sfWinners) == 2 && sfWinners[0] != nil && sfWinners[1] != nil {
		b.Final.P1 = *sfWinners[0]
		b.Final.P2 = *sfWinners[1]
	} else {
		b.Final.P1 = PendingSlot("Winner of Semifinal 1")
		b.Final.P2 = PendingSlot("Winner of Semifinal 2")
	}
}

// winners returns the winner of each match, nil where it is not decided yet.
func winners(matches []Match) []*Slot {
	out := make([]*Slot, len(matches))
	for i, m := range matches {
		if w, ok := m.Winner(); ok {
			out[i] = &w
		}
	}
	return out
}

func advance(playin Match, winner *Slot) Slot {
	if winner == nil {
		return pendingWinnerOf(playin)
	}
	return *winner
}

// fillSemi sets both semifinal slots once both feeders are decided.
func fillSemi(sf *Match, w1, w2 *Slot) {
	if w1 == nil || w2 == nil {
		sf.P1, sf.P2 = EmptySlot(), EmptySlot()
		return
	}
	sf.P1, sf.P2 = *w1, *w2
}

// pairSeedAware handles the 7-seed shape where seed 0 waits in the first
// semifinal. Once all three quarterfinals are decided the lowest ranked
// winner meets seed 0 and the other two meet each other.
func pairSeedAware(b *Bracket, qfWinners []*Slot) {
	for _, w := range qfWinners {
		if w == nil {
			b.SFs[0].P2 = EmptySlot()
			b.SFs[1].P1, b.SFs[1].P2 = EmptySlot(), EmptySlot()
			return
		}
	}

	rank := make(map[string]int, 7)
	for i, name := range b.Seeds {
		if i >= 7 {
			break
		}
		rank[name] = i
	}
	rankOf := func(s *Slot) int {
		if r, ok := rank[s.Value]; ok {
			return r
		}
		return 100
	}

	sorted := make([]*Slot, len(qfWinners))
	copy(sorted, qfWinners)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankOf(sorted[i]) < rankOf(sorted[j])
	})

	b.SFs[0].P2 = *sorted[2]
	b.SFs[1].P1 = *sorted[0]
	b.SFs[1].P2 = *sorted[1]
}
