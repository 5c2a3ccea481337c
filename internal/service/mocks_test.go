package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"classwork_service/internal/ctxdata"
	"classwork_service/internal/domain"
	"classwork_service/internal/filestore"
	"classwork_service/pkg/logger"
)

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) GetByStudentCode(ctx context.Context, code string) (*domain.Group, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) AddSubGroup(ctx context.Context, subGroup *domain.SubGroup) error {
	args := m.Called(ctx, subGroup)
	return args.Error(0)
}

func (m *MockGroupRepository) UpdateSubGroup(ctx context.Context, subGroup *domain.SubGroup) error {
	args := m.Called(ctx, subGroup)
	return args.Error(0)
}

func (m *MockGroupRepository) DeleteSubGroup(ctx context.Context, groupID, subGroupID uuid.UUID) error {
	args := m.Called(ctx, groupID, subGroupID)
	return args.Error(0)
}

func (m *MockGroupRepository) SubGroupExists(ctx context.Context, groupID, subGroupID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, subGroupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) Delete(ctx context.Context, groupID uuid.UUID) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ListBySubGroup(ctx context.Context, groupID, subGroupID, requester uuid.UUID) ([]*domain.AssignmentWithStatus, error) {
	args := m.Called(ctx, groupID, subGroupID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AssignmentWithStatus), args.Error(1)
}

func (m *MockAssignmentRepository) FindDueSoon(ctx context.Context, window time.Duration) ([]*domain.Assignment, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Assignment), args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Upsert(ctx context.Context, submission *domain.Submission, allowResubmission bool) error {
	args := m.Called(ctx, submission, allowResubmission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, assignmentID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.Submission, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) History(ctx context.Context, assignmentID, studentID uuid.UUID) ([]*domain.SubmissionHistoryEntry, error) {
	args := m.Called(ctx, assignmentID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SubmissionHistoryEntry), args.Error(1)
}

func (m *MockSubmissionRepository) Approve(ctx context.Context, id, approverID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.Submission, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Grade(ctx context.Context, assignmentID, studentID uuid.UUID, grade int, feedback *string, graderID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, assignmentID, studentID, grade, feedback, graderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) RecomputeLateStatus(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) ListFilePaths(ctx context.Context, assignmentID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Send(ctx context.Context, topic, key string, message interface{}) error {
	args := m.Called(ctx, topic, key, message)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Store(ctx context.Context, upload filestore.Upload) (domain.FileRecord, error) {
	args := m.Called(ctx, upload)
	return args.Get(0).(domain.FileRecord), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func userCtx(userID uuid.UUID, role domain.UserRole) context.Context {
	ctx := context.Background()
	ctx = ctxdata.WithUserID(ctx, userID.String())
	ctx = ctxdata.WithUserRole(ctx, string(role))
	return ctx
}

func newTestLogger() *logger.Logger {
	return &logger.Logger{ZapLogger: zap.NewNop()}
}
