package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
)

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		INSERT INTO assignments
			(id, group_id, subgroup_id, title, description, deadline, attachments,
			 allow_late_submission, allow_resubmission, status, created_at, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	attachments, err := marshalFiles(assignment.Attachments)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		assignment.GroupID,
		assignment.SubGroupID,
		assignment.Title,
		assignment.Description,
		assignment.Deadline,
		attachments,
		assignment.AllowLateSubmission,
		assignment.AllowResubmission,
		assignment.Status,
		now,
		now,
	)
	if err != nil {
		return handleError(err)
	}

	assignment.ID = id
	assignment.CreatedAt = now
	assignment.EditedAt = now
	return nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	query := `
		SELECT id, group_id, subgroup_id, title, description, deadline, attachments,
		       allow_late_submission, allow_resubmission, status, created_at, edited_at
		FROM assignments
		WHERE id = $1
	`

	var a domain.Assignment
	var attachments []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.GroupID,
		&a.SubGroupID,
		&a.Title,
		&a.Description,
		&a.Deadline,
		&attachments,
		&a.AllowLateSubmission,
		&a.AllowResubmission,
		&a.Status,
		&a.CreatedAt,
		&a.EditedAt,
	)
	if err != nil {
		return nil, handleError(err)
	}

	if a.Attachments, err = unmarshalFiles(attachments); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		UPDATE assignments
		SET title = $1, description = $2, deadline = $3, attachments = $4,
		    allow_late_submission = $5, allow_resubmission = $6, status = $7, edited_at = $8
		WHERE id = $9
	`

	attachments, err := marshalFiles(assignment.Attachments)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		assignment.Title,
		assignment.Description,
		assignment.Deadline,
		attachments,
		assignment.AllowLateSubmission,
		assignment.AllowResubmission,
		assignment.Status,
		time.Now(),
		assignment.ID,
	)
	if err != nil {
		return handleError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errdefs.ErrNotFound
	}

	return nil
}

// Delete removes the assignment and every submission referencing it inside
// one transaction. Storage has no foreign-key cascade; this is the explicit
// two-step the lifecycle requires.
func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM submission_history WHERE assignment_id = $1`, id); err != nil {
		return handleError(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE assignment_id = $1`, id); err != nil {
		return handleError(err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return handleError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errdefs.ErrNotFound
	}

	return tx.Commit()
}

// ListBySubGroup returns the subgroup's assignments with the requester's
// submission status derived by a join at query time. Nothing is stored for
// the status, so there is no denormalized copy to drift.
func (r *AssignmentRepository) ListBySubGroup(ctx context.Context, groupID, subGroupID, requester uuid.UUID) ([]*domain.AssignmentWithStatus, error) {
	query := `
		SELECT a.id, a.group_id, a.subgroup_id, a.title, a.description, a.deadline, a.attachments,
		       a.allow_late_submission, a.allow_resubmission, a.status, a.created_at, a.edited_at,
		       CASE WHEN s.id IS NULL THEN 'not_submitted' ELSE 'submitted' END AS submission_status
		FROM assignments a
		LEFT JOIN submissions s
		       ON s.assignment_id = a.id AND s.student_id = $3
		WHERE a.group_id = $1 AND a.subgroup_id = $2
		ORDER BY a.deadline
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, subGroupID, requester)
	if err != nil {
		return nil, handleError(err)
	}
	defer func() { _ = rows.Close() }()

	var assignments []*domain.AssignmentWithStatus
	for rows.Next() {
		var a domain.AssignmentWithStatus
		var attachments []byte
		if err := rows.Scan(
			&a.ID,
			&a.GroupID,
			&a.SubGroupID,
			&a.Title,
			&a.Description,
			&a.Deadline,
			&attachments,
			&a.AllowLateSubmission,
			&a.AllowResubmission,
			&a.Status,
			&a.CreatedAt,
			&a.EditedAt,
			&a.SubmissionStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if a.Attachments, err = unmarshalFiles(attachments); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return assignments, nil
}

// FindDueSoon returns active assignments whose deadline falls inside the
// window, for the reminder worker.
func (r *AssignmentRepository) FindDueSoon(ctx context.Context, window time.Duration) ([]*domain.Assignment, error) {
	query := `
		SELECT id, group_id, subgroup_id, title, description, deadline, attachments,
		       allow_late_submission, allow_resubmission, status, created_at, edited_at
		FROM assignments
		WHERE status = 'active' AND deadline BETWEEN NOW() AND $1
	`

	rows, err := r.db.QueryContext(ctx, query, time.Now().Add(window))
	if err != nil {
		return nil, handleError(err)
	}
	defer func() { _ = rows.Close() }()

	var assignments []*domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var attachments []byte
		if err := rows.Scan(
			&a.ID,
			&a.GroupID,
			&a.SubGroupID,
			&a.Title,
			&a.Description,
			&a.Deadline,
			&attachments,
			&a.AllowLateSubmission,
			&a.AllowResubmission,
			&a.Status,
			&a.CreatedAt,
			&a.EditedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if a.Attachments, err = unmarshalFiles(attachments); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return assignments, nil
}
