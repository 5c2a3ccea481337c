package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func handleError(err error) error {
	if isUniqueViolation(err) {
		return errdefs.ErrConflict
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errdefs.ErrNotFound
	}
	return fmt.Errorf("repository error: %w", err)
}

func marshalFiles(files []domain.FileRecord) ([]byte, error) {
	if files == nil {
		files = []domain.FileRecord{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file records: %w", err)
	}
	return data, nil
}

func unmarshalFiles(data []byte) ([]domain.FileRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var files []domain.FileRecord
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file records: %w", err)
	}
	return files, nil
}
