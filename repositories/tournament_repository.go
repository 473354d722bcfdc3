package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/Dosada05/groupcup/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict")
	ErrTournamentDataInvalid  = errors.New("tournament data violates a database constraint")
)

type ListTournamentsFilter struct {
	Limit  int
	Offset int
}

// MutateFunc changes a record inside the per-tournament critical section.
// Returning an error discards every change.
type MutateFunc func(rec *brackets.Record) error

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.TournamentSummary, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int) error
	UpdateArchiveKey(ctx context.Context, id int, archiveKey *string) error
	Mutate(ctx context.Context, id int, fn MutateFunc) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	data, err := encodeRecord(t.Record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tournaments (name, data)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err = executor.QueryRowContext(ctx, query, t.Name, data).Scan(&t.ID, &t.CreatedAt)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return r.getByID(ctx, r.getExecutor(nil), id, false)
}

func (r *postgresTournamentRepository) getByID(ctx context.Context, exec SQLExecutor, id int, forUpdate bool) (*models.Tournament, error) {
	query := `
		SELECT id, name, created_at, data, archive_key
		FROM tournaments
		WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	t := &models.Tournament{}
	var data []byte
	err := exec.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt, &data, &t.ArchiveKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	t.Record, err = decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.TournamentSummary, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT id, name, created_at, COALESCE(jsonb_array_length(data->'players'), 0)
		FROM tournaments
		ORDER BY created_at DESC, id DESC`

	args := []interface{}{}
	argID := 1
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.TournamentSummary, 0)
	for rows.Next() {
		var t models.TournamentSummary
		if scanErr := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.PlayerCount); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.getExecutor(nil).QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return total, nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	executor := r.getExecutor(nil)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateArchiveKey(ctx context.Context, id int, archiveKey *string) error {
	executor := r.getExecutor(nil)
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET archive_key = $1 WHERE id = $2`, archiveKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament archive key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Mutate locks the row, applies fn to the decoded record and writes it back
// in the same transaction.
func (r *postgresTournamentRepository) Mutate(ctx context.Context, id int, fn MutateFunc) (t *models.Tournament, txErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("rollback of tournament %d failed: %v (original error: %v)", id, rbErr, txErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			t = nil
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	t, err = r.getByID(ctx, tx, id, true)
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
	result, err := tx.ExecContext(ctx, `UPDATE tournaments SET data = $1 WHERE id = $2`, data, id)
	if err != nil {
		return nil, r.handleTournamentError(err)
	}
	if err := checkAffectedRows(result, ErrTournamentNotFound); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrTournamentNameConflict
		case "23502", "23514", "22P02":
			return fmt.Errorf("%w: %s", ErrTournamentDataInvalid, pqErr.Message)
		}
	}
	return err
}
