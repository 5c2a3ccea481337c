package classwork_http

import (
	"time"

	"github.com/google/uuid"

	"classwork_service/internal/domain"
)

type createGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Password    string  `json:"password"`
}

type joinGroupRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

type subGroupRequest struct {
	Name string `json:"name"`
}

type editSubGroupRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

type createAssignmentRequest struct {
	GroupID             uuid.UUID `json:"group_id"`
	SubGroupID          uuid.UUID `json:"subgroup_id"`
	Title               string    `json:"title"`
	Description         *string   `json:"description,omitempty"`
	Deadline            time.Time `json:"deadline"`
	AllowLateSubmission bool      `json:"allow_late_submission"`
	AllowResubmission   bool      `json:"allow_resubmission"`
}

type updateAssignmentRequest struct {
	Title               *string    `json:"title,omitempty"`
	Description         *string    `json:"description,omitempty"`
	Deadline            *time.Time `json:"deadline,omitempty"`
	AllowLateSubmission *bool      `json:"allow_late_submission,omitempty"`
	AllowResubmission   *bool      `json:"allow_resubmission,omitempty"`
	Status              *string    `json:"status,omitempty"`
}

type submitRequest struct {
	Text *string `json:"text,omitempty"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type gradeRequest struct {
	Grade    int     `json:"grade"`
	Feedback *string `json:"feedback,omitempty"`
}

type subGroupResponse struct {
	ID      uuid.UUID `json:"id"`
	GroupID uuid.UUID `json:"group_id"`
	Name    string    `json:"name"`
	Status  string    `json:"status"`
}

type groupResponse struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Description     *string            `json:"description,omitempty"`
	GroupCode       string             `json:"group_code"`
	AdminJoinCode   string             `json:"admin_join_code,omitempty"`
	StudentJoinCode string             `json:"student_join_code,omitempty"`
	Status          string             `json:"status"`
	SubGroups       []subGroupResponse `json:"subgroups"`
	CreatedAt       time.Time          `json:"created_at"`
	EditedAt        time.Time          `json:"edited_at"`
}

type assignmentResponse struct {
	ID                  uuid.UUID           `json:"id"`
	GroupID             uuid.UUID           `json:"group_id"`
	SubGroupID          uuid.UUID           `json:"subgroup_id"`
	Title               string              `json:"title"`
	Description         *string             `json:"description,omitempty"`
	Deadline            time.Time           `json:"deadline"`
	Attachments         []domain.FileRecord `json:"attachments"`
	AllowLateSubmission bool                `json:"allow_late_submission"`
	AllowResubmission   bool                `json:"allow_resubmission"`
	Status              string              `json:"status"`
	SubmissionStatus    string              `json:"submission_status,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	EditedAt            time.Time           `json:"edited_at"`
}

type submissionResponse struct {
	ID              uuid.UUID           `json:"id"`
	AssignmentID    uuid.UUID           `json:"assignment_id"`
	StudentID       uuid.UUID           `json:"student_id"`
	Text            *string             `json:"text,omitempty"`
	Files           []domain.FileRecord `json:"files"`
	SubmittedAt     time.Time           `json:"submitted_at"`
	IsLate          bool                `json:"is_late"`
	Status          string              `json:"status"`
	ApprovalStatus  string              `json:"approval_status"`
	Grade           *int                `json:"grade,omitempty"`
	Feedback        *string             `json:"feedback,omitempty"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID          `json:"approved_by,omitempty"`
	GradedAt        *time.Time          `json:"graded_at,omitempty"`
	GradedBy        *uuid.UUID          `json:"graded_by,omitempty"`
}

type historyEntryResponse struct {
	ID           uuid.UUID `json:"id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	StudentID    uuid.UUID `json:"student_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IsLate       bool      `json:"is_late"`
}

type recomputeResponse struct {
	Repaired int64 `json:"repaired"`
}

func toSubGroupResponse(sg *domain.SubGroup) subGroupResponse {
	return subGroupResponse{
		ID:      sg.ID,
		GroupID: sg.GroupID,
		Name:    sg.Name,
		Status:  string(sg.Status),
	}
}

func toGroupResponse(g *domain.Group) groupResponse {
	subGroups := make([]subGroupResponse, 0, len(g.SubGroups))
	for i := range g.SubGroups {
		subGroups = append(subGroups, toSubGroupResponse(&g.SubGroups[i]))
	}
	return groupResponse{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		GroupCode:       g.GroupCode,
		AdminJoinCode:   g.AdminJoinCode,
		StudentJoinCode: g.StudentJoinCode,
		Status:          string(g.Status),
		SubGroups:       subGroups,
		CreatedAt:       g.CreatedAt,
		EditedAt:        g.EditedAt,
	}
}

func toAssignmentResponse(a *domain.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:                  a.ID,
		GroupID:             a.GroupID,
		SubGroupID:          a.SubGroupID,
		Title:               a.Title,
		Description:         a.Description,
		Deadline:            a.Deadline,
		Attachments:         a.Attachments,
		AllowLateSubmission: a.AllowLateSubmission,
		AllowResubmission:   a.AllowResubmission,
		Status:              string(a.Status),
		CreatedAt:           a.CreatedAt,
		EditedAt:            a.EditedAt,
	}
}

func toAssignmentWithStatusResponse(a *domain.AssignmentWithStatus) assignmentResponse {
	resp := toAssignmentResponse(&a.Assignment)
	resp.SubmissionStatus = string(a.SubmissionStatus)
	return resp
}

func toSubmissionResponse(s *domain.Submission) submissionResponse {
	return submissionResponse{
		ID:              s.ID,
		AssignmentID:    s.AssignmentID,
		StudentID:       s.StudentID,
		Text:            s.Text,
		Files:           s.Files,
		SubmittedAt:     s.SubmittedAt,
		IsLate:          s.IsLate,
		Status:          string(s.Status),
		ApprovalStatus:  string(s.ApprovalStatus),
		Grade:           s.Grade,
		Feedback:        s.Feedback,
		RejectionReason: s.RejectionReason,
		ApprovedAt:      s.ApprovedAt,
		ApprovedBy:      s.ApprovedBy,
		GradedAt:        s.GradedAt,
		GradedBy:        s.GradedBy,
	}
}

func toHistoryResponse(entries []*domain.SubmissionHistoryEntry) []historyEntryResponse {
	resp := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, historyEntryResponse{
			ID:           e.ID,
			AssignmentID: e.AssignmentID,
			StudentID:    e.StudentID,
			SubmittedAt:  e.SubmittedAt,
			IsLate:       e.IsLate,
		})
	}
	return resp
}
