package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotConfigured is returned by NewR2Uploader when no bucket is configured.
var ErrNotConfigured = errors.New("object storage is not configured")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ArchiveKey is the object key of a tournament snapshot taken at the given time.
func ArchiveKey(tournamentID int, at time.Time) string {
	return fmt.Sprintf("tournaments/%d/%s.json", tournamentID, at.UTC().Format("20060102T150405Z"))
}
