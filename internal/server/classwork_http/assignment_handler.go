package classwork_http

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
	"classwork_service/internal/service"
)

func (h *Handler) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	assignment, err := h.assignments.CreateAssignment(r.Context(), &service.CreateAssignmentInput{
		GroupID:             req.GroupID,
		SubGroupID:          req.SubGroupID,
		Title:               req.Title,
		Description:         req.Description,
		Deadline:            req.Deadline,
		AllowLateSubmission: req.AllowLateSubmission,
		AllowResubmission:   req.AllowResubmission,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentResponse(assignment))
}

func (h *Handler) getAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}

	assignment, err := h.assignments.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssignmentResponse(assignment))
}

// updateAssignment applies a partial update on top of the current record.
func (h *Handler) updateAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	assignment, err := h.assignments.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = req.Description
	}
	if req.Deadline != nil {
		assignment.Deadline = *req.Deadline
	}
	if req.AllowLateSubmission != nil {
		assignment.AllowLateSubmission = *req.AllowLateSubmission
	}
	if req.AllowResubmission != nil {
		assignment.AllowResubmission = *req.AllowResubmission
	}
	if req.Status != nil {
		status := domain.AssignmentStatus(*req.Status)
		if !status.IsValid() {
			writeError(w, fmt.Errorf("invalid assignment status: %w", errdefs.ErrValidation))
			return
		}
		assignment.Status = status
	}

	if err := h.assignments.UpdateAssignment(r.Context(), assignment); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssignmentResponse(assignment))
}

func (h *Handler) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.assignments.DeleteAssignment(r.Context(), assignmentID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAssignments(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.URL.Query().Get("group_id"))
	if err != nil {
		writeError(w, fmt.Errorf("invalid group_id: %w", errdefs.ErrValidation))
		return
	}
	subGroupID, err := uuid.Parse(r.URL.Query().Get("subgroup_id"))
	if err != nil {
		writeError(w, fmt.Errorf("invalid subgroup_id: %w", errdefs.ErrValidation))
		return
	}

	assignments, err := h.assignments.ListBySubGroup(r.Context(), groupID, subGroupID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, toAssignmentWithStatusResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}
