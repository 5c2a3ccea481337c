package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
	"classwork_service/internal/filestore"
	"classwork_service/pkg/logger"
)

type CreateAssignmentInput struct {
	GroupID             uuid.UUID
	SubGroupID          uuid.UUID
	Title               string
	Description         *string
	Deadline            time.Time
	Attachments         []domain.FileRecord
	AllowLateSubmission bool
	AllowResubmission   bool
}

type AssignmentServiceInterface interface {
	CreateAssignment(ctx context.Context, input *CreateAssignmentInput) (*domain.Assignment, error)
	GetAssignment(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	UpdateAssignment(ctx context.Context, assignment *domain.Assignment) error
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
	ListBySubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) ([]*domain.AssignmentWithStatus, error)
	FindDueSoon(ctx context.Context, window time.Duration) ([]*domain.Assignment, error)
}

type assignmentService struct {
	assignments AssignmentRepository
	submissions SubmissionRepository
	groups      GroupRepository
	access      *Access
	files       filestore.Store
	logger      *logger.Logger
}

func NewAssignmentService(
	assignments AssignmentRepository,
	submissions SubmissionRepository,
	groups GroupRepository,
	access *Access,
	files filestore.Store,
	log *logger.Logger,
) AssignmentServiceInterface {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		groups:      groups,
		access:      access,
		files:       files,
		logger:      log,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, input *CreateAssignmentInput) (*domain.Assignment, error) {
	if !isStaff(callerRole(ctx)) {
		return nil, fmt.Errorf("only staff may create assignments: %w", errdefs.ErrPermissionDenied)
	}

	if input.Title == "" {
		return nil, fmt.Errorf("assignment title is required: %w", errdefs.ErrValidation)
	}
	if input.Deadline.IsZero() {
		return nil, fmt.Errorf("assignment deadline is required: %w", errdefs.ErrValidation)
	}
	if input.GroupID == uuid.Nil || input.SubGroupID == uuid.Nil {
		return nil, fmt.Errorf("group and subgroup are required: %w", errdefs.ErrValidation)
	}

	// The subgroup reference is validated against the current parent's child
	// list; storage does not enforce this.
	exists, err := s.groups.SubGroupExists(ctx, input.GroupID, input.SubGroupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("invalid subgroup for group: %w", errdefs.ErrValidation)
	}

	assignment := &domain.Assignment{
		GroupID:             input.GroupID,
		SubGroupID:          input.SubGroupID,
		Title:               input.Title,
		Description:         input.Description,
		Deadline:            input.Deadline,
		Attachments:         input.Attachments,
		AllowLateSubmission: input.AllowLateSubmission,
		AllowResubmission:   input.AllowResubmission,
		Status:              domain.AssignmentStatusActive,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole(ctx) == domain.UserRoleStudent {
		if err := s.access.RequireMember(ctx, userID, assignment.GroupID); err != nil {
			return nil, err
		}
	}

	return assignment, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	if !isStaff(callerRole(ctx)) {
		return fmt.Errorf("only staff may update assignments: %w", errdefs.ErrPermissionDenied)
	}
	if assignment.Title == "" {
		return fmt.Errorf("assignment title is required: %w", errdefs.ErrValidation)
	}
	return s.assignments.Update(ctx, assignment)
}

// DeleteAssignment cascades submission deletion transactionally, then cleans
// up stored submission files best-effort. A failed object delete leaves an
// orphan; it is logged and not compensated.
func (s *assignmentService) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	if !isStaff(callerRole(ctx)) {
		return fmt.Errorf("only staff may delete assignments: %w", errdefs.ErrPermissionDenied)
	}

	paths, err := s.submissions.ListFilePaths(ctx, id)
	if err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}

	for _, path := range paths {
		if err := s.files.Delete(ctx, path); err != nil {
			s.logger.Error("failed to delete stored file",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	return nil
}

// ListBySubGroup returns assignments with the caller's derived submission
// status. Students must be members of the owning group.
func (s *assignmentService) ListBySubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) ([]*domain.AssignmentWithStatus, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if callerRole(ctx) == domain.UserRoleStudent {
		if err := s.access.RequireMember(ctx, userID, groupID); err != nil {
			return nil, err
		}
	}

	return s.assignments.ListBySubGroup(ctx, groupID, subGroupID, userID)
}

func (s *assignmentService) FindDueSoon(ctx context.Context, window time.Duration) ([]*domain.Assignment, error) {
	return s.assignments.FindDueSoon(ctx, window)
}
