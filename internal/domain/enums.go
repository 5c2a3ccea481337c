package domain

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleTeacher UserRole = "teacher"
	UserRoleAdmin   UserRole = "admin"
)

type GroupStatus string

const (
	GroupStatusActive   GroupStatus = "active"
	GroupStatusInactive GroupStatus = "inactive"
	GroupStatusArchived GroupStatus = "archived"
)

type SubGroupStatus string

const (
	SubGroupStatusActive   SubGroupStatus = "active"
	SubGroupStatusInactive SubGroupStatus = "inactive"
)

type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "active"
	AssignmentStatusArchived AssignmentStatus = "archived"
)

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusApproved  SubmissionStatus = "approved"
	SubmissionStatusRejected  SubmissionStatus = "rejected"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

// ApprovalStatus is tracked independently of SubmissionStatus. Grading does
// not touch it, so a graded submission can still be pending approval.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// DerivedSubmissionStatus is computed at listing time for the requesting
// student.
type DerivedSubmissionStatus string

const (
	DerivedSubmitted    DerivedSubmissionStatus = "submitted"
	DerivedNotSubmitted DerivedSubmissionStatus = "not_submitted"
)

func (s SubGroupStatus) IsValid() bool {
	switch s {
	case SubGroupStatusActive, SubGroupStatusInactive:
		return true
	default:
		return false
	}
}

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusActive, AssignmentStatusArchived:
		return true
	default:
		return false
	}
}

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusSubmitted, SubmissionStatusApproved,
		SubmissionStatusRejected, SubmissionStatusGraded:
		return true
	default:
		return false
	}
}

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	default:
		return false
	}
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleStudent, UserRoleTeacher, UserRoleAdmin:
		return true
	default:
		return false
	}
}
