package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
	"classwork_service/internal/filestore"
	"classwork_service/pkg/logger"
)

type SubmissionServiceInterface interface {
	Submit(ctx context.Context, assignmentID uuid.UUID, text *string, uploads []filestore.Upload) (*domain.Submission, error)
	GetSubmission(ctx context.Context, assignmentID, studentID uuid.UUID) (*domain.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.Submission, error)
	GetHistory(ctx context.Context, assignmentID, studentID uuid.UUID) ([]*domain.SubmissionHistoryEntry, error)
	RecomputeLateStatus(ctx context.Context) (int64, error)
}

type submissionService struct {
	submissions SubmissionRepository
	assignments AssignmentRepository
	access      *Access
	files       filestore.Store
	logger      *logger.Logger
	now         func() time.Time
}

func NewSubmissionService(
	submissions SubmissionRepository,
	assignments AssignmentRepository,
	access *Access,
	files filestore.Store,
	log *logger.Logger,
) SubmissionServiceInterface {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		access:      access,
		files:       files,
		logger:      log,
		now:         time.Now,
	}
}

// Submit creates or overwrites the caller's submission. Lateness is fixed at
// write time from the assignment deadline; resubmission discards all prior
// review state. The write itself is a single conditional upsert, so two
// concurrent first submissions cannot both slip past an existence check.
func (s *submissionService) Submit(ctx context.Context, assignmentID uuid.UUID, text *string, uploads []filestore.Upload) (*domain.Submission, error) {
	studentID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	role := callerRole(ctx)
	if role != domain.UserRoleStudent && role != domain.UserRoleAdmin {
		return nil, fmt.Errorf("only students may submit: %w", errdefs.ErrPermissionDenied)
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Status != domain.AssignmentStatusActive {
		return nil, fmt.Errorf("assignment is archived: %w", errdefs.ErrValidation)
	}

	if err := s.access.RequireMember(ctx, studentID, assignment.GroupID); err != nil {
		return nil, err
	}

	submittedAt := s.now()
	isLate := domain.IsLate(submittedAt, assignment.Deadline)

	// The previous submission is loaded only so superseded files can be
	// cleaned up after the overwrite; it plays no part in conflict detection.
	var previous *domain.Submission
	if assignment.AllowResubmission {
		previous, err = s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
		if err != nil && !errors.Is(err, errdefs.ErrNotFound) {
			return nil, err
		}
	}

	records, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}

	submission := &domain.Submission{
		AssignmentID:   assignmentID,
		StudentID:      studentID,
		Text:           text,
		Files:          records,
		SubmittedAt:    submittedAt,
		IsLate:         isLate,
		Status:         domain.SubmissionStatusSubmitted,
		ApprovalStatus: domain.ApprovalStatusPending,
	}

	if err := s.submissions.Upsert(ctx, submission, assignment.AllowResubmission); err != nil {
		s.deleteFiles(ctx, records)
		return nil, err
	}

	if previous != nil {
		s.deleteFiles(ctx, previous.Files)
	}

	return submission, nil
}

// GetSubmission returns the current submission. Students read their own;
// staff read any.
func (s *submissionService) GetSubmission(ctx context.Context, assignmentID, studentID uuid.UUID) (*domain.Submission, error) {
	if err := s.requireSelfOrStaff(ctx, studentID); err != nil {
		return nil, err
	}
	return s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
}

func (s *submissionService) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.Submission, error) {
	if !isStaff(callerRole(ctx)) {
		return nil, fmt.Errorf("only staff may list submissions: %w", errdefs.ErrPermissionDenied)
	}

	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		return nil, err
	}

	return s.submissions.ListByAssignment(ctx, assignmentID)
}

func (s *submissionService) GetHistory(ctx context.Context, assignmentID, studentID uuid.UUID) ([]*domain.SubmissionHistoryEntry, error) {
	if err := s.requireSelfOrStaff(ctx, studentID); err != nil {
		return nil, err
	}
	return s.submissions.History(ctx, assignmentID, studentID)
}

// RecomputeLateStatus is a maintenance operation: it repairs is_late drift
// and is a no-op when the data is already consistent.
func (s *submissionService) RecomputeLateStatus(ctx context.Context) (int64, error) {
	if callerRole(ctx) != domain.UserRoleAdmin {
		return 0, fmt.Errorf("only admins may run maintenance: %w", errdefs.ErrPermissionDenied)
	}

	repaired, err := s.submissions.RecomputeLateStatus(ctx)
	if err != nil {
		return 0, err
	}

	if repaired > 0 {
		s.logger.Warn("repaired late-status drift", zap.Int64("rows", repaired))
	}

	return repaired, nil
}

func (s *submissionService) requireSelfOrStaff(ctx context.Context, studentID uuid.UUID) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	if isStaff(callerRole(ctx)) || userID == studentID {
		return nil
	}
	return fmt.Errorf("may only read own submission: %w", errdefs.ErrPermissionDenied)
}

func (s *submissionService) storeUploads(ctx context.Context, uploads []filestore.Upload) ([]domain.FileRecord, error) {
	var records []domain.FileRecord
	for _, upload := range uploads {
		record, err := s.files.Store(ctx, upload)
		if err != nil {
			s.deleteFiles(ctx, records)
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// deleteFiles is best-effort: a failed delete leaves an orphaned object and
// is only logged.
func (s *submissionService) deleteFiles(ctx context.Context, records []domain.FileRecord) {
	for _, record := range records {
		if err := s.files.Delete(ctx, record.Path); err != nil {
			s.logger.Error("failed to delete stored file",
				zap.String("path", record.Path),
				zap.Error(err),
			)
		}
	}
}
