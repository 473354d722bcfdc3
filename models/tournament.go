package models

import (
	"time"

	"github.com/Dosada05/groupcup/brackets"
)

// Tournament представляет турнир: метаданные строки таблицы и запись движка.
type Tournament struct {
	ID         int              `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	Record     *brackets.Record `json:"record" db:"data"`
	ArchiveKey *string          `json:"-" db:"archive_key"`
	ArchiveURL *string          `json:"archive_url,omitempty" db:"-"`
}

// TournamentSummary is a list row; the record itself is not loaded.
type TournamentSummary struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	PlayerCount int       `json:"player_count" db:"-"`
}

// TournamentPage is one page of the tournament list.
type TournamentPage struct {
	Tournaments []TournamentSummary `json:"tournaments"`
	Total       int                 `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}
