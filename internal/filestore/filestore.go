package filestore

import (
	"context"
	"io"

	"classwork_service/internal/domain"
)

// Upload is a single incoming file.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists uploads and deletes superseded objects. Deletion is
// best-effort at call sites; a failed delete leaves an orphaned object.
type Store interface {
	Store(ctx context.Context, upload Upload) (domain.FileRecord, error)
	Delete(ctx context.Context, path string) error
}
