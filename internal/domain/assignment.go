package domain

import (
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	ID                  uuid.UUID
	GroupID             uuid.UUID
	SubGroupID          uuid.UUID
	Title               string
	Description         *string
	Deadline            time.Time
	Attachments         []FileRecord
	AllowLateSubmission bool
	AllowResubmission   bool
	Status              AssignmentStatus
	CreatedAt           time.Time
	EditedAt            time.Time
}

// AssignmentWithStatus is an assignment plus the requesting student's derived
// submission status. The status is computed by the listing query, never
// stored.
type AssignmentWithStatus struct {
	Assignment
	SubmissionStatus DerivedSubmissionStatus
}
