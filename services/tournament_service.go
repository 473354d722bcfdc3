package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/Dosada05/groupcup/models"
	"github.com/Dosada05/groupcup/repositories"
	"github.com/Dosada05/groupcup/storage"
	"github.com/Dosada05/groupcup/utils"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	minPlayers       = 2
)

// Notifier delivers realtime updates; *brackets.Hub implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

type StartTournamentInput struct {
	Title   string   `json:"title"`
	Players []string `json:"players"`
}

type ListTournamentsFilter struct {
	Limit  int
	Offset int
}

type TournamentService interface {
	StartTournament(ctx context.Context, input StartTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter ListTournamentsFilter) (*models.TournamentPage, error)
	DeleteTournament(ctx context.Context, id int) error
	RecordGroupScore(ctx context.Context, id, index int, input models.ScoreInput) (*models.StandingsView, error)
	ClearGroupScore(ctx context.Context, id, index int) (*models.StandingsView, error)
	GetKnockout(ctx context.Context, id int) (*models.KnockoutView, error)
	RecordKnockoutScore(ctx context.Context, id int, ref brackets.MatchRef, input models.ScoreInput) (*models.KnockoutView, error)
	ClearKnockoutScore(ctx context.Context, id int, ref brackets.MatchRef) (*models.KnockoutView, error)
	ArchiveTournament(ctx context.Context, id int) (*models.Tournament, error)
}

type tournamentService struct {
	repo     repositories.TournamentRepository
	uploader storage.FileUploader
	notifier Notifier
	logger   *slog.Logger

	now   func() time.Time
	rngMu sync.Mutex
	rng   *rand.Rand
}

// TournamentServiceOption customises a TournamentService.
type TournamentServiceOption func(*tournamentService)

// WithRand sets the source used for group draws. Without it draws use the
// global math/rand source.
func WithRand(rng *rand.Rand) TournamentServiceOption {
	return func(s *tournamentService) {
		s.rng = rng
	}
}

// WithClock replaces time.Now, which names untitled tournaments and archive keys.
func WithClock(now func() time.Time) TournamentServiceOption {
	return func(s *tournamentService) {
		s.now = now
	}
}

// NewTournamentService wires the service. uploader and notifier may be nil:
// archiving then fails with ErrArchiveUnavailable and no updates are pushed.
func NewTournamentService(
	repo repositories.TournamentRepository,
	uploader storage.FileUploader,
	notifier Notifier,
	logger *slog.Logger,
	opts ...TournamentServiceOption,
) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &tournamentService{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *tournamentService) StartTournament(ctx context.Context, input StartTournamentInput) (*models.Tournament, error) {
	players, err := utils.NormalizeNames(input.Players)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlayerNames, err)
	}
	if len(players) < minPlayers {
		return nil, ErrNotEnoughPlayers
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Tournament " + s.now().Format("2006-01-02 15:04")
	}

	t := &models.Tournament{
		Name:   title,
		Record: s.newRecord(players),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", translateError(err))
	}

	s.logger.Info("tournament started",
		slog.Int("tournament_id", t.ID), slog.String("name", t.Name), slog.Int("players", len(players)))
	return t, nil
}

// newRecord serialises draws because *rand.Rand is not safe for concurrent use.
func (s *tournamentService) newRecord(players []string) *brackets.Record {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return brackets.NewRecord(players, s.rng)
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}
	s.populateArchiveURL(t)
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter ListTournamentsFilter) (*models.TournamentPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	page := &models.TournamentPage{Limit: filter.Limit, Offset: filter.Offset}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.repo.List(gCtx, repositories.ListTournamentsFilter{Limit: filter.Limit, Offset: filter.Offset})
		if err != nil {
			return fmt.Errorf("failed to list tournaments: %w", err)
		}
		page.Tournaments = list
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.Count(gCtx)
		if err != nil {
			return err
		}
		page.Total = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return translateError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateError(err)
	}

	if t.ArchiveKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *t.ArchiveKey); err != nil {
			s.logger.Warn("failed to delete tournament archive",
				slog.Int("tournament_id", id), slog.String("key", *t.ArchiveKey), slog.Any("error", err))
		}
	}

	s.broadcast(id, brackets.MessageTournamentClosed, map[string]int{"tournament_id": id})
	s.logger.Info("tournament deleted", slog.Int("tournament_id", id))
	return nil
}

func (s *tournamentService) RecordGroupScore(ctx context.Context, id, index int, input models.ScoreInput) (*models.StandingsView, error) {
	if input.Score1 == nil || input.Score2 == nil {
		return nil, ErrScoreRequired
	}
	t, err := s.repo.Mutate(ctx, id, func(rec *brackets.Record) error {
		return rec.RecordGroupScore(index, *input.Score1, *input.Score2)
	})
	if err != nil {
		return nil, translateError(err)
	}

	view := standingsView(t)
	s.broadcast(id, brackets.MessageStandingsUpdated, view)
	return view, nil
}

func (s *tournamentService) ClearGroupScore(ctx context.Context, id, index int) (*models.StandingsView, error) {
	t, err := s.repo.Mutate(ctx, id, func(rec *brackets.Record) error {
		return rec.ClearGroupScore(index)
	})
	if err != nil {
		return nil, translateError(err)
	}

	view := standingsView(t)
	s.broadcast(id, brackets.MessageStandingsUpdated, view)
	return view, nil
}

// GetKnockout builds the bracket on first access and re-runs progression on
// later ones; both are persisted.
func (s *tournamentService) GetKnockout(ctx context.Context, id int) (*models.KnockoutView, error) {
	var created bool
	t, err := s.repo.Mutate(ctx, id, func(rec *brackets.Record) error {
		var err error
		_, created, err = rec.EnsureKnockout()
		return err
	})
	if err != nil {
		return nil, translateError(err)
	}

	view := knockoutView(t)
	if created {
		s.logger.Info("knockout bracket created",
			slog.Int("tournament_id", id), slog.Int("seeds", t.Record.Knockout.Shape()))
		s.broadcast(id, brackets.MessageBracketUpdated, view)
	}
	return view, nil
}

func (s *tournamentService) RecordKnockoutScore(ctx context.Context, id int, ref brackets.MatchRef, input models.ScoreInput) (*models.KnockoutView, error) {
	if input.Score1 == nil || input.Score2 == nil {
		return nil, ErrScoreRequired
	}
	view, err := s.mutateKnockout(ctx, id, ref, func(rec *brackets.Record) error {
		return rec.RecordKnockoutScore(ref, *input.Score1, *input.Score2)
	})
	if err != nil {
		return nil, err
	}
	if view.Champion != nil {
		s.logger.Info("tournament champion decided", slog.Int("tournament_id", id), slog.String("champion", *view.Champion))
	}
	return view, nil
}

func (s *tournamentService) ClearKnockoutScore(ctx context.Context, id int, ref brackets.MatchRef) (*models.KnockoutView, error) {
	return s.mutateKnockout(ctx, id, ref, func(rec *brackets.Record) error {
		return rec.ClearKnockoutScore(ref)
	})
}

// mutateKnockout applies a change to one knockout match and broadcasts the
// bracket together with the matches whose slots depend on it.
func (s *tournamentService) mutateKnockout(ctx context.Context, id int, ref brackets.MatchRef, fn repositories.MutateFunc) (*models.KnockoutView, error) {
	var created bool
	t, err := s.repo.Mutate(ctx, id, func(rec *brackets.Record) error {
		created = rec.Knockout == nil
		return fn(rec)
	})
	if err != nil {
		return nil, translateError(err)
	}
	if created {
		s.logger.Info("knockout bracket created",
			slog.Int("tournament_id", id), slog.Int("seeds", t.Record.Knockout.Shape()))
	}

	view := knockoutView(t)
	affected, err := t.Record.Knockout.Downstream(ref)
	if err != nil {
		s.logger.Warn("failed to list affected knockout matches",
			slog.Int("tournament_id", id), slog.String("match", ref.String()), slog.Any("error", err))
	}
	view.Affected = affected

	s.logger.Info("knockout match updated",
		slog.Int("tournament_id", id), slog.String("match", ref.String()), slog.Any("affected", affected))
	s.broadcast(id, brackets.MessageBracketUpdated, view)
	return view, nil
}

// ArchiveTournament uploads a JSON snapshot of the record and replaces the
// previous snapshot, if any.
func (s *tournamentService) ArchiveTournament(ctx context.Context, id int) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrArchiveUnavailable
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}

	snapshot, err := json.MarshalIndent(struct {
		ID        int              `json:"id"`
		Name      string           `json:"name"`
		CreatedAt time.Time        `json:"created_at"`
		Record    *brackets.Record `json:"record"`
	}{t.ID, t.Name, t.CreatedAt, t.Record}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament snapshot: %w", err)
	}

	key := storage.ArchiveKey(id, s.now())
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(snapshot))
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament snapshot: %w", err)
	}

	if err := s.repo.UpdateArchiveKey(ctx, id, &result.Key); err != nil {
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Warn("failed to remove orphaned archive", slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, translateError(err)
	}

	if old := t.ArchiveKey; old != nil && *old != result.Key {
		if err := s.uploader.Delete(ctx, *old); err != nil {
			s.logger.Warn("failed to delete previous archive", slog.String("key", *old), slog.Any("error", err))
		}
	}

	t.ArchiveKey = &result.Key
	s.populateArchiveURL(t)
	s.logger.Info("tournament archived", slog.Int("tournament_id", id), slog.String("key", result.Key))
	return t, nil
}

func (s *tournamentService) populateArchiveURL(t *models.Tournament) {
	if t.ArchiveKey == nil || s.uploader == nil {
		return
	}
	if u := s.uploader.GetPublicURL(*t.ArchiveKey); u != "" {
		t.ArchiveURL = &u
	}
}

func (s *tournamentService) broadcast(id int, messageType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	room := brackets.RoomForTournament(id)
	s.notifier.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    messageType,
		Payload: payload,
		RoomID:  room,
	})
}

func standingsView(t *models.Tournament) *models.StandingsView {
	return &models.StandingsView{
		TournamentID: t.ID,
		Standings:    t.Record.SortedStandings(),
		Rounds:       t.Record.Rounds(),
	}
}

func knockoutView(t *models.Tournament) *models.KnockoutView {
	view := &models.KnockoutView{
		TournamentID: t.ID,
		Bracket:      t.Record.Knockout,
		GroupDone:    t.Record.GroupComplete(),
	}
	if champion, ok := t.Record.Champion(); ok {
		view.Champion = &champion
	}
	return view
}

// StandingsOf is the standings view of an already loaded tournament.
func StandingsOf(t *models.Tournament) *models.StandingsView {
	if t == nil || t.Record == nil {
		return nil
	}
	return standingsView(t)
}
