package brackets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotJSON(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
		wire string
	}{
		{"empty", EmptySlot(), `null`},
		{"player", PlayerSlot("Alice"), `"Alice"`},
		{"pending", PendingSlot("Winner of Semifinal 2"), `"Winner of Semifinal 2"`},
		{"player with placeholder-like name", PlayerSlot("Winners FC"), `"Winners FC"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.slot)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wire, string(data))

			var decoded Slot
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.slot, decoded)
		})
	}
}

func TestSlotFromEmptyString(t *testing.T) {
	var m Match
	require.NoError(t, json.Unmarshal([]byte(`{"p1":"","p2":"Bob","score1":null,"score2":null}`), &m))
	assert.Equal(t, EmptySlot(), m.P1)
	assert.Equal(t, PlayerSlot("Bob"), m.P2)

	assert.Error(t, json.Unmarshal([]byte(`{"p1":7}`), &m))
}

func TestIsReservedName(t *testing.T) {
	assert.True(t, IsReservedName("Winner of Semifinal 1"))
	assert.True(t, IsReservedName("Winner of A vs B"))
	assert.False(t, IsReservedName("Winners FC"))
	assert.False(t, IsReservedName("Winner Smith"))
	assert.False(t, IsReservedName("winner of the year"))
}

func TestMatchWinner(t *testing.T) {
	m := NewMatch(PlayerSlot("A"), PlayerSlot("B"))
	_, ok := m.Winner()
	assert.False(t, ok)

	require.NoError(t, m.SetScore(0, 2))
	w, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, "B", w.Player())

	require.NoError(t, m.SetScore(1, 1))
	w, _ = m.Winner()
	assert.Equal(t, "A", w.Player())

	assert.ErrorIs(t, m.SetScore(-1, 0), ErrInvalidScore)
	assert.Equal(t, "A vs B 1-1", m.String())

	m.ClearScore()
	assert.False(t, m.Completed())
	assert.Equal(t, "A vs B", m.String())
}

func TestMatchWinnerNeedsKnownPlayers(t *testing.T) {
	m := NewMatch(PlayerSlot("A"), EmptySlot())
	require.NoError(t, m.SetScore(3, 0))

	_, ok := m.Winner()
	assert.False(t, ok)
	assert.Equal(t, "A vs TBD 3-0", m.String())
	assert.Equal(t, "", PendingSlot("Winner of X vs Y").Player())
}
