package classwork_http_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"classwork_service/internal/domain"
	"classwork_service/internal/filestore"
	"classwork_service/internal/service"
	"classwork_service/pkg/logger"
)

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) CreateGroup(ctx context.Context, input *service.CreateGroupInput) (*domain.Group, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) GetGroup(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) JoinGroup(ctx context.Context, code, password string) (*domain.Group, error) {
	args := m.Called(ctx, code, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) LeaveGroup(ctx context.Context, groupID uuid.UUID) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *MockGroupService) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *MockGroupService) AddSubGroup(ctx context.Context, groupID uuid.UUID, name string) (*domain.SubGroup, error) {
	args := m.Called(ctx, groupID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubGroup), args.Error(1)
}

func (m *MockGroupService) EditSubGroup(ctx context.Context, subGroup *domain.SubGroup) error {
	args := m.Called(ctx, subGroup)
	return args.Error(0)
}

func (m *MockGroupService) DeleteSubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) error {
	args := m.Called(ctx, groupID, subGroupID)
	return args.Error(0)
}

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) CreateAssignment(ctx context.Context, input *service.CreateAssignmentInput) (*domain.Assignment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentService) UpdateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentService) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentService) ListBySubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) ([]*domain.AssignmentWithStatus, error) {
	args := m.Called(ctx, groupID, subGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AssignmentWithStatus), args.Error(1)
}

func (m *MockAssignmentService) FindDueSoon(ctx context.Context, window time.Duration) ([]*domain.Assignment, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Assignment), args.Error(1)
}

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, assignmentID uuid.UUID, text *string, uploads []filestore.Upload) (*domain.Submission, error) {
	args := m.Called(ctx, assignmentID, text, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) GetSubmission(ctx context.Context, assignmentID, studentID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, assignmentID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.Submission, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) GetHistory(ctx context.Context, assignmentID, studentID uuid.UUID) ([]*domain.SubmissionHistoryEntry, error) {
	args := m.Called(ctx, assignmentID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SubmissionHistoryEntry), args.Error(1)
}

func (m *MockSubmissionService) RecomputeLateStatus(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Approve(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockReviewService) Reject(ctx context.Context, submissionID uuid.UUID, reason string) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockReviewService) Grade(ctx context.Context, assignmentID, studentID uuid.UUID, grade int, feedback *string) (*domain.Submission, error) {
	args := m.Called(ctx, assignmentID, studentID, grade, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func newTestLogger() *logger.Logger {
	return &logger.Logger{ZapLogger: zap.NewNop()}
}
