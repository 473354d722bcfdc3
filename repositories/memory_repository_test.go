package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/Dosada05/groupcup/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournament(name string, players ...string) *models.Tournament {
	return &models.Tournament{Name: name, Record: brackets.NewRecord(players, nil)}
}

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()

	tr := newTournament("Cup", "A", "B", "C", "D")
	require.NoError(t, repo.Create(ctx, tr))
	assert.Equal(t, 1, tr.ID)
	assert.False(t, tr.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cup", got.Name)
	assert.Equal(t, tr.Record, got.Record)

	got.Record.Players[0] = "changed"
	again, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Record.Players[0])

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestMemoryMutate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()
	tr := newTournament("Cup", "A", "B", "C")
	require.NoError(t, repo.Create(ctx, tr))

	updated, err := repo.Mutate(ctx, tr.ID, func(rec *brackets.Record) error {
		return rec.RecordGroupScore(0, 2, 1)
	})
	require.NoError(t, err)
	assert.True(t, updated.Record.Schedule[0].Completed())

	boom := errors.New("boom")
	_, err = repo.Mutate(ctx, tr.ID, func(rec *brackets.Record) error {
		rec.Schedule[1].ClearScore()
		_ = rec.RecordGroupScore(1, 5, 0)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, stored.Record.Schedule[0].Completed())
	assert.False(t, stored.Record.Schedule[1].Completed(), "failed mutation must not be persisted")

	_, err = repo.Mutate(ctx, 99, func(*brackets.Record) error { return nil })
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository().(*memoryTournamentRepository)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, newTournament(name, "A", "B")))
	}

	list, err := repo.List(ctx, ListTournamentsFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, 2, list[0].PlayerCount)

	page, err := repo.List(ctx, ListTournamentsFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Name)

	empty, err := repo.List(ctx, ListTournamentsFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestMemoryDeleteAndArchiveKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()
	tr := newTournament("Cup", "A", "B")
	require.NoError(t, repo.Create(ctx, tr))

	key := "archives/1.json"
	require.NoError(t, repo.UpdateArchiveKey(ctx, tr.ID, &key))
	got, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ArchiveKey)
	assert.Equal(t, key, *got.ArchiveKey)

	require.NoError(t, repo.Delete(ctx, tr.ID))
	assert.ErrorIs(t, repo.Delete(ctx, tr.ID), ErrTournamentNotFound)
	assert.ErrorIs(t, repo.UpdateArchiveKey(ctx, tr.ID, nil), ErrTournamentNotFound)
}
