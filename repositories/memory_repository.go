package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/groupcup/models"
)

type memoryTournament struct {
	id         int
	name       string
	createdAt  time.Time
	data       []byte
	archiveKey *string
}

// memoryTournamentRepository keeps tournaments in process memory. Records are
// stored encoded, so callers never share state with the store.
type memoryTournamentRepository struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*memoryTournament
	now    func() time.Time
}

func NewMemoryTournamentRepository() TournamentRepository {
	return &memoryTournamentRepository{
		nextID: 1,
		rows:   make(map[int]*memoryTournament),
		now:    time.Now,
	}
}

func (r *memoryTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	data, err := encodeRecord(t.Record)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row := &memoryTournament{
		id:        r.nextID,
		name:      t.Name,
		createdAt: r.now().UTC(),
		data:      data,
	}
	r.rows[row.id] = row
	r.nextID++

	t.ID = row.id
	t.CreatedAt = row.createdAt
	return nil
}

func (r *memoryTournamentRepository) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(id)
}

func (r *memoryTournamentRepository) load(id int) (*models.Tournament, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	rec, err := decodeRecord(row.data)
	if err != nil {
		return nil, err
	}
	var archiveKey *string
	if row.archiveKey != nil {
		k := *row.archiveKey
		archiveKey = &k
	}
	return &models.Tournament{
		ID:         row.id,
		Name:       row.name,
		CreatedAt:  row.createdAt,
		Record:     rec,
		ArchiveKey: archiveKey,
	}, nil
}

func (r *memoryTournamentRepository) List(_ context.Context, filter ListTournamentsFilter) ([]models.TournamentSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	// Newest first, same as the postgres ordering.
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.rows[ids[i]], r.rows[ids[j]]
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.After(b.createdAt)
		}
		return a.id > b.id
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(ids) {
			ids = nil
		} else {
			ids = ids[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(ids) > filter.Limit {
		ids = ids[:filter.Limit]
	}

	tournaments := make([]models.TournamentSummary, 0, len(ids))
	for _, id := range ids {
		row := r.rows[id]
		rec, err := decodeRecord(row.data)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, models.TournamentSummary{
			ID:          row.id,
			Name:        row.name,
			CreatedAt:   row.createdAt,
			PlayerCount: len(rec.Players),
		})
	}
	return tournaments, nil
}

func (r *memoryTournamentRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

func (r *memoryTournamentRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryTournamentRepository) UpdateArchiveKey(_ context.Context, id int, archiveKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return ErrTournamentNotFound
	}
	row.archiveKey = archiveKey
	return nil
}

func (r *memoryTournamentRepository) Mutate(ctx context.Context, id int, fn MutateFunc) (*models.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(t.Record); err != nil {
		return nil, err
	}
	data, err := encodeRecord(t.Record)
	if err != nil {
		return nil, err
	}
	r.rows[id].data = data
	return t, nil
}
