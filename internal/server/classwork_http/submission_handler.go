package classwork_http

import (
	"fmt"
	"net/http"
	"strings"

	"classwork_service/internal/errdefs"
	"classwork_service/internal/filestore"
)

const maxUploadMemory = 32 << 20

// submit accepts either a JSON body with a text answer or a multipart form
// with a "text" field and any number of "files" parts.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var text *string
	var uploads []filestore.Upload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, fmt.Errorf("invalid multipart form: %w", errdefs.ErrValidation))
			return
		}
		if value := r.FormValue("text"); value != "" {
			text = &value
		}
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				writeError(w, fmt.Errorf("failed to read uploaded file: %w", errdefs.ErrValidation))
				return
			}
			defer file.Close()
			uploads = append(uploads, filestore.Upload{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			})
		}
	} else {
		var req submitRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		text = req.Text
	}

	submission, err := h.submissions.Submit(r.Context(), assignmentID, text, uploads)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubmissionResponse(submission))
}

func (h *Handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}
	studentID, err := uuidParam(r, "student_id")
	if err != nil {
		writeError(w, err)
		return
	}

	submission, err := h.submissions.GetSubmission(r.Context(), assignmentID, studentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}

	submissions, err := h.submissions.ListByAssignment(r.Context(), assignmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]submissionResponse, 0, len(submissions))
	for _, s := range submissions {
		resp = append(resp, toSubmissionResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getSubmissionHistory(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}
	studentID, err := uuidParam(r, "student_id")
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := h.submissions.GetHistory(r.Context(), assignmentID, studentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toHistoryResponse(history))
}

func (h *Handler) approveSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuidParam(r, "submission_id")
	if err != nil {
		writeError(w, err)
		return
	}

	submission, err := h.reviews.Approve(r.Context(), submissionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

func (h *Handler) rejectSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuidParam(r, "submission_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	submission, err := h.reviews.Reject(r.Context(), submissionID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

func (h *Handler) gradeSubmission(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuidParam(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}
	studentID, err := uuidParam(r, "student_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	submission, err := h.reviews.Grade(r.Context(), assignmentID, studentID, req.Grade, req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

func (h *Handler) recomputeLateStatus(w http.ResponseWriter, r *http.Request) {
	repaired, err := h.submissions.RecomputeLateStatus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recomputeResponse{Repaired: repaired})
}
