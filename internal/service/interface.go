package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"classwork_service/internal/ctxdata"
	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
)

type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	GetByStudentCode(ctx context.Context, code string) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	AddSubGroup(ctx context.Context, subGroup *domain.SubGroup) error
	UpdateSubGroup(ctx context.Context, subGroup *domain.SubGroup) error
	DeleteSubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) error
	SubGroupExists(ctx context.Context, groupID, subGroupID uuid.UUID) (bool, error)
	Delete(ctx context.Context, groupID uuid.UUID) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	Update(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySubGroup(ctx context.Context, groupID, subGroupID, requester uuid.UUID) ([]*domain.AssignmentWithStatus, error)
	FindDueSoon(ctx context.Context, window time.Duration) ([]*domain.Assignment, error)
}

type SubmissionRepository interface {
	Upsert(ctx context.Context, submission *domain.Submission, allowResubmission bool) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uuid.UUID) (*domain.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.Submission, error)
	History(ctx context.Context, assignmentID, studentID uuid.UUID) ([]*domain.SubmissionHistoryEntry, error)
	Approve(ctx context.Context, id, approverID uuid.UUID) (*domain.Submission, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.Submission, error)
	Grade(ctx context.Context, assignmentID, studentID uuid.UUID, grade int, feedback *string, graderID uuid.UUID) (*domain.Submission, error)
	RecomputeLateStatus(ctx context.Context) (int64, error)
	ListFilePaths(ctx context.Context, assignmentID uuid.UUID) ([]string, error)
}

// Publisher is the outbound notification channel. Delivery is fire-and-forget;
// callers log failures and move on.
type Publisher interface {
	Send(ctx context.Context, topic, key string, message interface{}) error
}

func callerID(ctx context.Context) (uuid.UUID, error) {
	raw, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return uuid.Nil, errdefs.ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errdefs.ErrUnauthenticated
	}
	return id, nil
}

func callerRole(ctx context.Context) domain.UserRole {
	raw, ok := ctxdata.GetUserRole(ctx)
	if !ok {
		return ""
	}
	return domain.UserRole(raw)
}

func isStaff(role domain.UserRole) bool {
	return role == domain.UserRoleTeacher || role == domain.UserRoleAdmin
}
