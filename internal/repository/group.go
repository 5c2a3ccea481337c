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

type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts the group row. A join-code collision surfaces as
// errdefs.ErrConflict so the caller can regenerate codes and retry.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	query := `
		INSERT INTO groups
			(id, name, description, password_hash, group_code, admin_join_code, student_join_code, status, created_at, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		group.Name,
		group.Description,
		group.PasswordHash,
		group.GroupCode,
		group.AdminJoinCode,
		group.StudentJoinCode,
		group.Status,
		now,
		now,
	)
	if err != nil {
		return handleError(err)
	}

	group.ID = id
	group.CreatedAt = now
	group.EditedAt = now
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := `
		SELECT id, name, description, password_hash, group_code, admin_join_code, student_join_code, status, created_at, edited_at
		FROM groups
		WHERE id = $1
	`

	var group domain.Group
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.PasswordHash,
		&group.GroupCode,
		&group.AdminJoinCode,
		&group.StudentJoinCode,
		&group.Status,
		&group.CreatedAt,
		&group.EditedAt,
	)
	if err != nil {
		return nil, handleError(err)
	}

	subGroups, err := r.listSubGroups(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.SubGroups = subGroups

	return &group, nil
}

// GetByStudentCode resolves a group from its student-facing join code.
func (r *GroupRepository) GetByStudentCode(ctx context.Context, code string) (*domain.Group, error) {
	query := `
		SELECT id, name, description, password_hash, group_code, admin_join_code, student_join_code, status, created_at, edited_at
		FROM groups
		WHERE student_join_code = $1
	`

	var group domain.Group
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.PasswordHash,
		&group.GroupCode,
		&group.AdminJoinCode,
		&group.StudentJoinCode,
		&group.Status,
		&group.CreatedAt,
		&group.EditedAt,
	)
	if err != nil {
		return nil, handleError(err)
	}

	return &group, nil
}

// AddMember is idempotent: joining a group twice leaves a single row.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, groupID, userID, time.Now()); err != nil {
		return handleError(err)
	}
	return nil
}

// RemoveMember is a no-op when the membership is absent.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return handleError(err)
	}
	return nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, handleError(err)
	}
	return exists, nil
}

func (r *GroupRepository) AddSubGroup(ctx context.Context, subGroup *domain.SubGroup) error {
	query := `
		INSERT INTO subgroups (group_id, id, name, status)
		VALUES ($1, $2, $3, $4)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, subGroup.GroupID, id, subGroup.Name, subGroup.Status)
	if err != nil {
		return handleError(err)
	}

	subGroup.ID = id
	return nil
}

func (r *GroupRepository) UpdateSubGroup(ctx context.Context, subGroup *domain.SubGroup) error {
	query := `
		UPDATE subgroups
		SET name = $1, status = $2
		WHERE group_id = $3 AND id = $4
	`

	result, err := r.db.ExecContext(ctx, query, subGroup.Name, subGroup.Status, subGroup.GroupID, subGroup.ID)
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

func (r *GroupRepository) DeleteSubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) error {
	query := `DELETE FROM subgroups WHERE group_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, groupID, subGroupID)
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

// SubGroupExists checks the child against the current parent, never a global
// id space.
func (r *GroupRepository) SubGroupExists(ctx context.Context, groupID, subGroupID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM subgroups WHERE group_id = $1 AND id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, groupID, subGroupID).Scan(&exists); err != nil {
		return false, handleError(err)
	}
	return exists, nil
}

// Delete cascades: submission history, submissions, assignments, subgroups,
// members, then the group itself, all inside one transaction.
func (r *GroupRepository) Delete(ctx context.Context, groupID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`DELETE FROM submission_history WHERE assignment_id IN (SELECT id FROM assignments WHERE group_id = $1)`,
		`DELETE FROM submissions WHERE assignment_id IN (SELECT id FROM assignments WHERE group_id = $1)`,
		`DELETE FROM assignments WHERE group_id = $1`,
		`DELETE FROM subgroups WHERE group_id = $1`,
		`DELETE FROM group_members WHERE group_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, groupID); err != nil {
			return handleError(err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
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

func (r *GroupRepository) listSubGroups(ctx context.Context, groupID uuid.UUID) ([]domain.SubGroup, error) {
	query := `
		SELECT group_id, id, name, status
		FROM subgroups
		WHERE group_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, handleError(err)
	}
	defer func() { _ = rows.Close() }()

	var subGroups []domain.SubGroup
	for rows.Next() {
		var sg domain.SubGroup
		if err := rows.Scan(&sg.GroupID, &sg.ID, &sg.Name, &sg.Status); err != nil {
			return nil, fmt.Errorf("failed to scan subgroup: %w", err)
		}
		subGroups = append(subGroups, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return subGroups, nil
}
