package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/Dosada05/groupcup/models"
	"github.com/Dosada05/groupcup/repositories"
	"github.com/Dosada05/groupcup/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (n *recordingNotifier) BroadcastToRoom(roomID string, message interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message.(brackets.WebSocketMessage))
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.messages))
	for _, m := range n.messages {
		out = append(out, m.Type)
	}
	return out
}

type memoryUploader struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: make(map[string][]byte)}
}

func (u *memoryUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://files.test/" + key
}

type fixture struct {
	svc      *tournamentService
	notifier *recordingNotifier
	uploader *memoryUploader
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	notifier := &recordingNotifier{}
	uploader := newMemoryUploader()
	svc := NewTournamentService(repositories.NewMemoryTournamentRepository(), uploader, notifier, nil,
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }),
	).(*tournamentService)
	return fixture{svc: svc, notifier: notifier, uploader: uploader}
}

func score(s1, s2 int) models.ScoreInput {
	return models.ScoreInput{Score1: &s1, Score2: &s2}
}

// playAll records every group match; the player listed first in the entry
// order wins 1-0.
func playAll(t *testing.T, svc TournamentService, tr *models.Tournament) {
	t.Helper()
	rank := make(map[string]int)
	for i, p := range tr.Record.Players {
		rank[p] = i
	}
	for i, m := range tr.Record.Schedule {
		in := score(1, 0)
		if rank[m.P2.Value] < rank[m.P1.Value] {
			in = score(0, 1)
		}
		_, err := svc.RecordGroupScore(context.Background(), tr.ID, i, in)
		require.NoError(t, err)
	}
}

func TestWithRandDrivesTheDraw(t *testing.T) {
	players := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	draw := func(seed int64) []string {
		svc := NewTournamentService(repositories.NewMemoryTournamentRepository(), nil, nil, nil,
			WithRand(rand.New(rand.NewSource(seed))))
		tr, err := svc.StartTournament(context.Background(), StartTournamentInput{Players: players})
		require.NoError(t, err)
		return tr.Record.Group
	}

	first := draw(42)
	assert.Equal(t, first, draw(42))
	assert.ElementsMatch(t, players, first)
}

func TestStartTournamentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A"}})
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", " a "}})
	assert.ErrorIs(t, err, ErrInvalidPlayerNames)

	_, err = f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", "  "}})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", "Winner of Semifinal 1"}})
	assert.ErrorIs(t, err, ErrInvalidPlayerNames)

	tr, err := f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"Winners FC", "Ann"}})
	require.NoError(t, err)
	view, err := f.svc.RecordGroupScore(ctx, tr.ID, 0, score(2, 0))
	require.NoError(t, err, "names that merely start with Winner stay players after a reload")
	assert.Equal(t, 3, view.Standings[0].Points)

	tr, err = f.svc.StartTournament(ctx, StartTournamentInput{Title: "   ", Players: []string{" A", "B "}})
	require.NoError(t, err)
	assert.Equal(t, "Tournament 2024-06-01 10:00", tr.Name)
	assert.Equal(t, []string{"A", "B"}, tr.Record.Players)
	assert.Len(t, tr.Record.Schedule, 1)

	tr, err = f.svc.StartTournament(ctx, StartTournamentInput{Title: "  Spring Cup ", Players: []string{"A", "B", "C"}})
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", tr.Name)
}

func TestGroupScoresUpdateStandings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", "B", "C", "D"}})
	require.NoError(t, err)

	m := tr.Record.Schedule[0]
	view, err := f.svc.RecordGroupScore(ctx, tr.ID, 0, score(4, 1))
	require.NoError(t, err)
	assert.Equal(t, brackets.Standing{Name: m.P1.Value, Points: 3, GD: 3}, view.Standings[0])
	assert.Len(t, view.Rounds, 3)

	view, err = f.svc.RecordGroupScore(ctx, tr.ID, 0, score(0, 0))
	require.NoError(t, err)
	for _, s := range view.Standings {
		assert.Zero(t, s.GD)
	}

	_, err = f.svc.RecordGroupScore(ctx, tr.ID, 0, models.ScoreInput{})
	assert.ErrorIs(t, err, ErrScoreRequired)

	_, err = f.svc.RecordGroupScore(ctx, tr.ID, 0, score(-2, 0))
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, brackets.ErrInvalidScore)

	_, err = f.svc.RecordGroupScore(ctx, tr.ID, 40, score(1, 0))
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.RecordGroupScore(ctx, 999, 0, score(1, 0))
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	view, err = f.svc.ClearGroupScore(ctx, tr.ID, 0)
	require.NoError(t, err)
	for _, s := range view.Standings {
		assert.Zero(t, s.Points)
	}

	assert.Equal(t, []string{
		brackets.MessageStandingsUpdated,
		brackets.MessageStandingsUpdated,
		brackets.MessageStandingsUpdated,
	}, f.notifier.types())
	assert.Equal(t, "tournament_1", f.notifier.messages[0].RoomID)
}

func TestKnockoutLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", "B", "C", "D", "E", "F"}})
	require.NoError(t, err)
	playAll(t, f.svc, tr)

	view, err := f.svc.GetKnockout(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, view.GroupDone)
	assert.Nil(t, view.Champion)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, view.Bracket.Seeds)
	require.Len(t, view.Bracket.Playins, 1)

	_, err = f.svc.RecordKnockoutScore(ctx, tr.ID, brackets.MatchRef{Stage: brackets.StageSemifinals, Index: 0}, score(1, 0))
	assert.ErrorIs(t, err, ErrPlayersNotKnown)

	_, err = f.svc.RecordKnockoutScore(ctx, tr.ID, brackets.MatchRef{Stage: brackets.StageQuarterfinals, Index: 0}, score(1, 0))
	assert.ErrorIs(t, err, ErrValidationFailed)

	view, err = f.svc.RecordKnockoutScore(ctx, tr.ID, brackets.MatchRef{Stage: brackets.StagePlayins}, score(1, 3))
	require.NoError(t, err)
	assert.Equal(t, brackets.PlayerSlot("E"), view.Bracket.SFs[0].P2)
	assert.ElementsMatch(t, []brackets.MatchRef{
		{Stage: brackets.StageSemifinals, Index: 0},
		{Stage: brackets.StageFinal},
	}, view.Affected)

	for _, step := range []struct {
		ref    brackets.MatchRef
		s1, s2 int
	}{
		{brackets.MatchRef{Stage: brackets.StageSemifinals, Index: 0}, 0, 2},
		{brackets.MatchRef{Stage: brackets.StageSemifinals, Index: 1}, 2, 1},
		{brackets.MatchRef{Stage: brackets.StageFinal}, 1, 0},
	} {
		view, err = f.svc.RecordKnockoutScore(ctx, tr.ID, step.ref, score(step.s1, step.s2))
		require.NoError(t, err, step.ref.String())
	}
	require.NotNil(t, view.Champion)
	assert.Equal(t, "E", *view.Champion)
	assert.Empty(t, view.Affected, "nothing is fed by the final")

	// Later views re-run progress but keep the stored bracket.
	again, err := f.svc.GetKnockout(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Bracket, again.Bracket)

	view, err = f.svc.ClearKnockoutScore(ctx, tr.ID, brackets.MatchRef{Stage: brackets.StageFinal})
	require.NoError(t, err)
	assert.Nil(t, view.Champion)

	types := f.notifier.types()
	bracketUpdates := 0
	for _, typ := range types {
		if typ == brackets.MessageBracketUpdated {
			bracketUpdates++
		}
	}
	// created + playin + 3 results + clear
	assert.Equal(t, 6, bracketUpdates)
}

func TestKnockoutScoreBuildsMissingBracket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", "B", "C", "D"}})
	require.NoError(t, err)
	playAll(t, f.svc, tr)

	view, err := f.svc.RecordKnockoutScore(ctx, tr.ID, brackets.MatchRef{Stage: brackets.StageSemifinals, Index: 1}, score(2, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, view.Bracket.Seeds)
	assert.Equal(t, []brackets.MatchRef{{Stage: brackets.StageFinal}}, view.Affected)

	stored, err := f.svc.GetKnockout(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, stored.Bracket.SFs[1].Completed())
	assert.Equal(t, brackets.PlayerSlot("B"), stored.Bracket.Final.P2, "semifinal 2 winner waits in the final")

	small, err := f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", "B", "C"}})
	require.NoError(t, err)
	_, err = f.svc.RecordKnockoutScore(ctx, small.ID, brackets.MatchRef{Stage: brackets.StageFinal}, score(1, 0))
	assert.ErrorIs(t, err, ErrKnockoutUnavailable)
}

func TestGetKnockoutNeedsFourPlayers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.StartTournament(ctx, StartTournamentInput{Players: []string{"A", "B", "C"}})
	require.NoError(t, err)

	_, err = f.svc.GetKnockout(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrKnockoutUnavailable)
	assert.ErrorIs(t, err, brackets.ErrNoBracket)
}

func TestListTournaments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		_, err := f.svc.StartTournament(ctx, StartTournamentInput{Title: title, Players: []string{"A", "B"}})
		require.NoError(t, err)
	}

	page, err := f.svc.ListTournaments(ctx, ListTournamentsFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Tournaments, 2)
	assert.Equal(t, "three", page.Tournaments[0].Name)

	page, err = f.svc.ListTournaments(ctx, ListTournamentsFilter{Limit: 1000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Len(t, page.Tournaments, 3)
}

func TestArchiveAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr, err := f.svc.StartTournament(ctx, StartTournamentInput{Title: "Cup", Players: []string{"A", "B"}})
	require.NoError(t, err)

	archived, err := f.svc.ArchiveTournament(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, archived.ArchiveKey)
	require.NotNil(t, archived.ArchiveURL)
	assert.Equal(t, "tournaments/1/20240601T100000Z.json", *archived.ArchiveKey)
	assert.Equal(t, "https://files.test/tournaments/1/20240601T100000Z.json", *archived.ArchiveURL)
	assert.True(t, bytes.Contains(f.uploader.objects[*archived.ArchiveKey], []byte(`"name": "Cup"`)))

	f.svc.now = func() time.Time { return time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC) }
	second, err := f.svc.ArchiveTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{*archived.ArchiveKey}, f.uploader.deleted, "previous snapshot is replaced")

	got, err := f.svc.GetTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ArchiveURL, got.ArchiveURL)

	require.NoError(t, f.svc.DeleteTournament(ctx, tr.ID))
	assert.Empty(t, f.uploader.objects)
	assert.Contains(t, f.notifier.types(), brackets.MessageTournamentClosed)

	_, err = f.svc.GetTournament(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, f.svc.DeleteTournament(ctx, tr.ID), ErrTournamentNotFound)
}

func TestArchiveWithoutStorage(t *testing.T) {
	svc := NewTournamentService(repositories.NewMemoryTournamentRepository(), nil, nil, nil)
	tr, err := svc.StartTournament(context.Background(), StartTournamentInput{Players: []string{"A", "B"}})
	require.NoError(t, err)

	_, err = svc.ArchiveTournament(context.Background(), tr.ID)
	assert.True(t, errors.Is(err, ErrArchiveUnavailable))
}
