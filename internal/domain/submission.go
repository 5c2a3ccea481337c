package domain

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID              uuid.UUID
	AssignmentID    uuid.UUID
	StudentID       uuid.UUID
	Text            *string
	Files           []FileRecord
	SubmittedAt     time.Time
	IsLate          bool
	Status          SubmissionStatus
	ApprovalStatus  ApprovalStatus
	Grade           *int
	Feedback        *string
	RejectionReason *string
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID
	GradedAt        *time.Time
	GradedBy        *uuid.UUID
}

// SubmissionHistoryEntry is the lightweight record kept for every submit,
// including ones later overwritten by a resubmission.
type SubmissionHistoryEntry struct {
	ID           uuid.UUID
	AssignmentID uuid.UUID
	StudentID    uuid.UUID
	SubmittedAt  time.Time
	IsLate       bool
}

// FileRecord describes a stored upload as returned by the file store.
type FileRecord struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// IsLate reports whether a submission instant is past the deadline.
// Equality is on-time.
func IsLate(submittedAt, deadline time.Time) bool {
	return submittedAt.After(deadline)
}
