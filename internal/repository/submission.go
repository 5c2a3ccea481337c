package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
)

const submissionColumns = `
	id, assignment_id, student_id, text, files, submitted_at, is_late,
	status, approval_status, grade, feedback, rejection_reason,
	approved_at, approved_by, graded_at, graded_by
`

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Upsert writes the submission and its history entry in one transaction.
// The unique (assignment_id, student_id) index serializes concurrent first
// submissions: there is no separate existence check, the conflict clause
// decides the outcome.
//
// With resubmission disallowed a conflicting insert affects zero rows and
// the stored row stays untouched; errdefs.ErrConflict is returned. With
// resubmission allowed the conflict overwrites the current row and clears
// all review state.
func (r *SubmissionRepository) Upsert(ctx context.Context, submission *domain.Submission, allowResubmission bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	files, err := marshalFiles(submission.Files)
	if err != nil {
		return err
	}

	var query string
	if allowResubmission {
		query = `
			INSERT INTO submissions
				(id, assignment_id, student_id, text, files, submitted_at, is_late, status, approval_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (assignment_id, student_id) DO UPDATE SET
				text = EXCLUDED.text,
				files = EXCLUDED.files,
				submitted_at = EXCLUDED.submitted_at,
				is_late = EXCLUDED.is_late,
				status = EXCLUDED.status,
				approval_status = EXCLUDED.approval_status,
				grade = NULL,
				feedback = NULL,
				rejection_reason = NULL,
				approved_at = NULL,
				approved_by = NULL,
				graded_at = NULL,
				graded_by = NULL
			RETURNING id
		`
	} else {
		query = `
			INSERT INTO submissions
				(id, assignment_id, student_id, text, files, submitted_at, is_late, status, approval_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (assignment_id, student_id) DO NOTHING
			RETURNING id
		`
	}

	err = tx.QueryRowContext(ctx, query,
		id,
		submission.AssignmentID,
		submission.StudentID,
		submission.Text,
		files,
		submission.SubmittedAt,
		submission.IsLate,
		submission.Status,
		submission.ApprovalStatus,
	).Scan(&submission.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("resubmission not allowed: %w", errdefs.ErrConflict)
		}
		return handleError(err)
	}

	historyID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO submission_history (id, assignment_id, student_id, submitted_at, is_late)
		VALUES ($1, $2, $3, $4, $5)
	`, historyID, submission.AssignmentID, submission.StudentID, submission.SubmittedAt, submission.IsLate)
	if err != nil {
		return handleError(err)
	}

	return tx.Commit()
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE assignment_id = $1 AND student_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, assignmentID, studentID))
}

func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE assignment_id = $1
		ORDER BY submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, handleError(err)
	}
	defer func() { _ = rows.Close() }()

	var submissions []*domain.Submission
	for rows.Next() {
		submission, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return submissions, nil
}

func (r *SubmissionRepository) History(ctx context.Context, assignmentID, studentID uuid.UUID) ([]*domain.SubmissionHistoryEntry, error) {
	query := `
		SELECT id, assignment_id, student_id, submitted_at, is_late
		FROM submission_history
		WHERE assignment_id = $1 AND student_id = $2
		ORDER BY submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID, studentID)
	if err != nil {
		return nil, handleError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.SubmissionHistoryEntry
	for rows.Next() {
		var e domain.SubmissionHistoryEntry
		if err := rows.Scan(&e.ID, &e.AssignmentID, &e.StudentID, &e.SubmittedAt, &e.IsLate); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

func (r *SubmissionRepository) Approve(ctx context.Context, id, approverID uuid.UUID) (*domain.Submission, error) {
	query := `
		UPDATE submissions
		SET status = 'approved', approval_status = 'approved', approved_at = NOW(), approved_by = $2
		WHERE id = $1
		RETURNING ` + submissionColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, approverID))
}

func (r *SubmissionRepository) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.Submission, error) {
	query := `
		UPDATE submissions
		SET status = 'rejected', approval_status = 'rejected', rejection_reason = $2
		WHERE id = $1
		RETURNING ` + submissionColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, reason))
}

// Grade sets the grade and marks the submission graded. approval_status is
// deliberately left alone; the two fields are independent review tracks.
func (r *SubmissionRepository) Grade(ctx context.Context, assignmentID, studentID uuid.UUID, grade int, feedback *string, graderID uuid.UUID) (*domain.Submission, error) {
	query := `
		UPDATE submissions
		SET status = 'graded', grade = $3, feedback = $4, graded_at = NOW(), graded_by = $5
		WHERE assignment_id = $1 AND student_id = $2
		RETURNING ` + submissionColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, assignmentID, studentID, grade, feedback, graderID))
}

// RecomputeLateStatus repairs is_late drift against the stored deadline and
// submitted_at. Both inputs are immutable after submit, so repeated runs are
// no-ops once the data is consistent.
func (r *SubmissionRepository) RecomputeLateStatus(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var repaired int64

	result, err := tx.ExecContext(ctx, `
		UPDATE submissions s
		SET is_late = (s.submitted_at > a.deadline)
		FROM assignments a
		WHERE a.id = s.assignment_id
		  AND s.is_late IS DISTINCT FROM (s.submitted_at > a.deadline)
	`)
	if err != nil {
		return 0, handleError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	repaired += rows

	result, err = tx.ExecContext(ctx, `
		UPDATE submission_history h
		SET is_late = (h.submitted_at > a.deadline)
		FROM assignments a
		WHERE a.id = h.assignment_id
		  AND h.is_late IS DISTINCT FROM (h.submitted_at > a.deadline)
	`)
	if err != nil {
		return 0, handleError(err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	repaired += rows

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return repaired, nil
}

// ListFilePaths gathers stored object keys for an assignment's submissions,
// for best-effort cleanup before a cascade delete.
func (r *SubmissionRepository) ListFilePaths(ctx context.Context, assignmentID uuid.UUID) ([]string, error) {
	query := `SELECT files FROM submissions WHERE assignment_id = $1`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, handleError(err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan files: %w", err)
		}
		files, err := unmarshalFiles(data)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return paths, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SubmissionRepository) scanOne(row rowScanner) (*domain.Submission, error) {
	var s domain.Submission
	var files []byte
	err := row.Scan(
		&s.ID,
		&s.AssignmentID,
		&s.StudentID,
		&s.Text,
		&files,
		&s.SubmittedAt,
		&s.IsLate,
		&s.Status,
		&s.ApprovalStatus,
		&s.Grade,
		&s.Feedback,
		&s.RejectionReason,
		&s.ApprovedAt,
		&s.ApprovedBy,
		&s.GradedAt,
		&s.GradedBy,
	)
	if err != nil {
		return nil, handleError(err)
	}

	if s.Files, err = unmarshalFiles(files); err != nil {
		return nil, err
	}

	return &s, nil
}
