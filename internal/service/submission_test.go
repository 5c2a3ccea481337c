package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
	"classwork_service/internal/filestore"
)

type submissionFixture struct {
	svc         *submissionService
	submissions *MockSubmissionRepository
	assignments *MockAssignmentRepository
	groups      *MockGroupRepository
	files       *MockFileStore
}

func setupSubmissionService(t *testing.T, now time.Time) *submissionFixture {
	t.Helper()
	submissions := new(MockSubmissionRepository)
	assignments := new(MockAssignmentRepository)
	groups := new(MockGroupRepository)
	files := new(MockFileStore)
	access := NewAccess(groups, nil, 0)

	svc := NewSubmissionService(submissions, assignments, access, files, newTestLogger()).(*submissionService)
	svc.now = func() time.Time { return now }

	return &submissionFixture{
		svc:         svc,
		submissions: submissions,
		assignments: assignments,
		groups:      groups,
		files:       files,
	}
}

func testAssignment(allowResubmission bool) *domain.Assignment {
	return &domain.Assignment{
		ID:                uuid.New(),
		GroupID:           uuid.New(),
		SubGroupID:        uuid.New(),
		Title:             "Homework 3",
		Deadline:          time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		AllowResubmission: allowResubmission,
		Status:            domain.AssignmentStatusActive,
	}
}

func TestSubmit(t *testing.T) {
	t.Run("LateSubmissionMarked", func(t *testing.T) {
		submittedAt := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
		f := setupSubmissionService(t, submittedAt)
		assignment := testAssignment(false)
		studentID := uuid.New()

		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)
		f.groups.On("IsMember", mock.Anything, assignment.GroupID, studentID).Return(true, nil)
		f.submissions.On("Upsert", mock.Anything, mock.Anything, false).Return(nil)

		text := "my answer"
		submission, err := f.svc.Submit(userCtx(studentID, domain.UserRoleStudent), assignment.ID, &text, nil)
		require.NoError(t, err)

		assert.True(t, submission.IsLate)
		assert.Equal(t, submittedAt, submission.SubmittedAt)
		assert.Equal(t, domain.SubmissionStatusSubmitted, submission.Status)
		assert.Equal(t, domain.ApprovalStatusPending, submission.ApprovalStatus)
		assert.Nil(t, submission.Grade)
	})

	t.Run("OnTimeAtExactDeadline", func(t *testing.T) {
		deadline := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		f := setupSubmissionService(t, deadline)
		assignment := testAssignment(false)
		studentID := uuid.New()

		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)
		f.groups.On("IsMember", mock.Anything, assignment.GroupID, studentID).Return(true, nil)
		f.submissions.On("Upsert", mock.Anything, mock.Anything, false).Return(nil)

		submission, err := f.svc.Submit(userCtx(studentID, domain.UserRoleStudent), assignment.ID, nil, nil)
		require.NoError(t, err)
		assert.False(t, submission.IsLate)
	})

	t.Run("ResubmissionCleansUpSupersededFiles", func(t *testing.T) {
		f := setupSubmissionService(t, time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC))
		assignment := testAssignment(true)
		studentID := uuid.New()
		previous := &domain.Submission{
			ID:           uuid.New(),
			AssignmentID: assignment.ID,
			StudentID:    studentID,
			Files:        []domain.FileRecord{{Path: "old/upload.pdf"}},
		}

		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)
		f.groups.On("IsMember", mock.Anything, assignment.GroupID, studentID).Return(true, nil)
		f.submissions.On("GetByAssignmentAndStudent", mock.Anything, assignment.ID, studentID).Return(previous, nil)
		f.submissions.On("Upsert", mock.Anything, mock.Anything, true).Return(nil)
		f.files.On("Delete", mock.Anything, "old/upload.pdf").Return(nil)

		_, err := f.svc.Submit(userCtx(studentID, domain.UserRoleStudent), assignment.ID, nil, nil)
		require.NoError(t, err)
		f.files.AssertCalled(t, "Delete", mock.Anything, "old/upload.pdf")
	})

	t.Run("ResubmissionNotAllowed", func(t *testing.T) {
		f := setupSubmissionService(t, time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC))
		assignment := testAssignment(false)
		studentID := uuid.New()

		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)
		f.groups.On("IsMember", mock.Anything, assignment.GroupID, studentID).Return(true, nil)
		f.submissions.On("Upsert", mock.Anything, mock.Anything, false).Return(errdefs.ErrConflict)

		_, err := f.svc.Submit(userCtx(studentID, domain.UserRoleStudent), assignment.ID, nil, nil)
		assert.ErrorIs(t, err, errdefs.ErrConflict)
		f.submissions.AssertNotCalled(t, "GetByAssignmentAndStudent")
	})

	t.Run("NotAMember", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		assignment := testAssignment(false)
		studentID := uuid.New()

		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)
		f.groups.On("IsMember", mock.Anything, assignment.GroupID, studentID).Return(false, nil)

		_, err := f.svc.Submit(userCtx(studentID, domain.UserRoleStudent), assignment.ID, nil, nil)
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
		f.submissions.AssertNotCalled(t, "Upsert")
	})

	t.Run("AssignmentNotFound", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		assignmentID := uuid.New()

		f.assignments.On("GetByID", mock.Anything, assignmentID).Return(nil, errdefs.ErrNotFound)

		_, err := f.svc.Submit(userCtx(uuid.New(), domain.UserRoleStudent), assignmentID, nil, nil)
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})

	t.Run("ArchivedAssignment", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		assignment := testAssignment(false)
		assignment.Status = domain.AssignmentStatusArchived

		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)

		_, err := f.svc.Submit(userCtx(uuid.New(), domain.UserRoleStudent), assignment.ID, nil, nil)
		assert.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("TeacherCannotSubmit", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())

		_, err := f.svc.Submit(userCtx(uuid.New(), domain.UserRoleTeacher), uuid.New(), nil, nil)
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
	})

	t.Run("UploadFailureRollsBackStoredFiles", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		assignment := testAssignment(false)
		studentID := uuid.New()

		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)
		f.groups.On("IsMember", mock.Anything, assignment.GroupID, studentID).Return(true, nil)
		f.files.On("Store", mock.Anything, mock.MatchedBy(func(u filestore.Upload) bool {
			return u.Name == "a.txt"
		})).Return(domain.FileRecord{Path: "stored/a.txt"}, nil)
		f.files.On("Store", mock.Anything, mock.MatchedBy(func(u filestore.Upload) bool {
			return u.Name == "b.txt"
		})).Return(domain.FileRecord{}, errors.New("storage unavailable"))
		f.files.On("Delete", mock.Anything, "stored/a.txt").Return(nil)

		uploads := []filestore.Upload{
			{Name: "a.txt", Body: strings.NewReader("a")},
			{Name: "b.txt", Body: strings.NewReader("b")},
		}
		_, err := f.svc.Submit(userCtx(studentID, domain.UserRoleStudent), assignment.ID, nil, uploads)
		require.Error(t, err)
		f.files.AssertCalled(t, "Delete", mock.Anything, "stored/a.txt")
		f.submissions.AssertNotCalled(t, "Upsert")
	})
}

func TestGetSubmission(t *testing.T) {
	assignmentID := uuid.New()
	studentID := uuid.New()
	submission := &domain.Submission{ID: uuid.New(), AssignmentID: assignmentID, StudentID: studentID}

	t.Run("OwnSubmission", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		f.submissions.On("GetByAssignmentAndStudent", mock.Anything, assignmentID, studentID).Return(submission, nil)

		got, err := f.svc.GetSubmission(userCtx(studentID, domain.UserRoleStudent), assignmentID, studentID)
		require.NoError(t, err)
		assert.Equal(t, submission.ID, got.ID)
	})

	t.Run("OtherStudentForbidden", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())

		_, err := f.svc.GetSubmission(userCtx(uuid.New(), domain.UserRoleStudent), assignmentID, studentID)
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
	})

	t.Run("TeacherReadsAny", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		f.submissions.On("GetByAssignmentAndStudent", mock.Anything, assignmentID, studentID).Return(submission, nil)

		_, err := f.svc.GetSubmission(userCtx(uuid.New(), domain.UserRoleTeacher), assignmentID, studentID)
		require.NoError(t, err)
	})
}

func TestListByAssignment(t *testing.T) {
	t.Run("StaffOnly", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())

		_, err := f.svc.ListByAssignment(userCtx(uuid.New(), domain.UserRoleStudent), uuid.New())
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
	})

	t.Run("UnknownAssignment", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		assignmentID := uuid.New()
		f.assignments.On("GetByID", mock.Anything, assignmentID).Return(nil, errdefs.ErrNotFound)

		_, err := f.svc.ListByAssignment(userCtx(uuid.New(), domain.UserRoleTeacher), assignmentID)
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		assignment := testAssignment(false)
		f.assignments.On("GetByID", mock.Anything, assignment.ID).Return(assignment, nil)
		f.submissions.On("ListByAssignment", mock.Anything, assignment.ID).Return([]*domain.Submission{
			{ID: uuid.New()},
		}, nil)

		list, err := f.svc.ListByAssignment(userCtx(uuid.New(), domain.UserRoleTeacher), assignment.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestGetHistory(t *testing.T) {
	assignmentID := uuid.New()
	studentID := uuid.New()

	t.Run("KeepsOverwrittenAttempts", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		f.submissions.On("History", mock.Anything, assignmentID, studentID).Return([]*domain.SubmissionHistoryEntry{
			{SubmittedAt: time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC), IsLate: true},
			{SubmittedAt: time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC), IsLate: false},
		}, nil)

		history, err := f.svc.GetHistory(userCtx(studentID, domain.UserRoleStudent), assignmentID, studentID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].IsLate)
		assert.False(t, history[1].IsLate)
	})

	t.Run("OtherStudentForbidden", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())

		_, err := f.svc.GetHistory(userCtx(uuid.New(), domain.UserRoleStudent), assignmentID, studentID)
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
	})
}

func TestRecomputeLateStatus(t *testing.T) {
	t.Run("AdminOnly", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())

		_, err := f.svc.RecomputeLateStatus(userCtx(uuid.New(), domain.UserRoleTeacher))
		assert.ErrorIs(t, err, errdefs.ErrPermissionDenied)
	})

	t.Run("ReturnsRepairedCount", func(t *testing.T) {
		f := setupSubmissionService(t, time.Now())
		f.submissions.On("RecomputeLateStatus", mock.Anything).Return(int64(3), nil)

		repaired, err := f.svc.RecomputeLateStatus(userCtx(uuid.New(), domain.UserRoleAdmin))
		require.NoError(t, err)
		assert.Equal(t, int64(3), repaired)
	})
}
