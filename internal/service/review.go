package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
	"classwork_service/pkg/logger"
)

// ApprovalEvent is published on the events topic, keyed by the submitting
// student's id.
type ApprovalEvent struct {
	AssignmentID   uuid.UUID               `json:"assignment_id"`
	SubmissionID   uuid.UUID               `json:"submission_id"`
	Status         domain.SubmissionStatus `json:"status"`
	ApprovalStatus domain.ApprovalStatus   `json:"approval_status"`
	ApprovedAt     *time.Time              `json:"approved_at"`
}

type ReviewServiceInterface interface {
	Approve(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)
	Reject(ctx context.Context, submissionID uuid.UUID, reason string) (*domain.Submission, error)
	Grade(ctx context.Context, assignmentID, studentID uuid.UUID, grade int, feedback *string) (*domain.Submission, error)
}

type reviewService struct {
	submissions SubmissionRepository
	publisher   Publisher
	eventsTopic string
	logger      *logger.Logger
}

func NewReviewService(
	submissions SubmissionRepository,
	publisher Publisher,
	eventsTopic string,
	log *logger.Logger,
) ReviewServiceInterface {
	return &reviewService{
		submissions: submissions,
		publisher:   publisher,
		eventsTopic: eventsTopic,
		logger:      log,
	}
}

// Approve marks the submission approved and notifies the student. The event
// is fire-and-forget; a publish failure does not undo the transition.
func (s *reviewService) Approve(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	approverID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if !isStaff(callerRole(ctx)) {
		return nil, fmt.Errorf("only staff may approve submissions: %w", errdefs.ErrPermissionDenied)
	}

	submission, err := s.submissions.Approve(ctx, submissionID, approverID)
	if err != nil {
		return nil, err
	}

	event := ApprovalEvent{
		AssignmentID:   submission.AssignmentID,
		SubmissionID:   submission.ID,
		Status:         submission.Status,
		ApprovalStatus: submission.ApprovalStatus,
		ApprovedAt:     submission.ApprovedAt,
	}
	if err := s.publisher.Send(ctx, s.eventsTopic, submission.StudentID.String(), event); err != nil {
		s.logger.Error("failed to publish approval event",
			zap.String("submission_id", submission.ID.String()),
			zap.Error(err),
		)
	}

	return submission, nil
}

func (s *reviewService) Reject(ctx context.Context, submissionID uuid.UUID, reason string) (*domain.Submission, error) {
	if !isStaff(callerRole(ctx)) {
		return nil, fmt.Errorf("only staff may reject submissions: %w", errdefs.ErrPermissionDenied)
	}
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", errdefs.ErrValidation)
	}

	return s.submissions.Reject(ctx, submissionID, reason)
}

// Grade validates the range and marks the submission graded. It never
// touches approval status: a graded submission can still be pending
// approval, and that divergence is intentional.
func (s *reviewService) Grade(ctx context.Context, assignmentID, studentID uuid.UUID, grade int, feedback *string) (*domain.Submission, error) {
	graderID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if !isStaff(callerRole(ctx)) {
		return nil, fmt.Errorf("only staff may grade submissions: %w", errdefs.ErrPermissionDenied)
	}
	if grade < 0 || grade > 100 {
		return nil, fmt.Errorf("grade must be between 0 and 100: %w", errdefs.ErrValidation)
	}

	return s.submissions.Grade(ctx, assignmentID, studentID, grade, feedback, graderID)
}
