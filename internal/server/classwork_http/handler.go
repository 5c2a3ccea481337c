package classwork_http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"classwork_service/internal/errdefs"
	"classwork_service/internal/service"
	"classwork_service/pkg/logger"
)

type Handler struct {
	groups      service.GroupServiceInterface
	assignments service.AssignmentServiceInterface
	submissions service.SubmissionServiceInterface
	reviews     service.ReviewServiceInterface
	logger      *logger.Logger
}

func NewHandler(
	groups service.GroupServiceInterface,
	assignments service.AssignmentServiceInterface,
	submissions service.SubmissionServiceInterface,
	reviews service.ReviewServiceInterface,
	log *logger.Logger,
) *Handler {
	return &Handler{
		groups:      groups,
		assignments: assignments,
		submissions: submissions,
		reviews:     reviews,
		logger:      log,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(NewLoggingMiddleware(h.logger))
	r.Use(NewAuthMiddleware())

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", h.createGroup)
		r.Post("/join", h.joinGroup)
		r.Route("/{group_id}", func(r chi.Router) {
			r.Get("/", h.getGroup)
			r.Delete("/", h.deleteGroup)
			r.Post("/leave", h.leaveGroup)
			r.Post("/subgroups", h.addSubGroup)
			r.Patch("/subgroups/{subgroup_id}", h.editSubGroup)
			r.Delete("/subgroups/{subgroup_id}", h.deleteSubGroup)
		})
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Post("/", h.createAssignment)
		r.Get("/", h.listAssignments)
		r.Route("/{assignment_id}", func(r chi.Router) {
			r.Get("/", h.getAssignment)
			r.Patch("/", h.updateAssignment)
			r.Delete("/", h.deleteAssignment)
			r.Post("/submissions", h.submit)
			r.Get("/submissions", h.listSubmissions)
			r.Get("/submissions/{student_id}", h.getSubmission)
			r.Get("/submissions/{student_id}/history", h.getSubmissionHistory)
			r.Patch("/submissions/{student_id}/grade", h.gradeSubmission)
		})
	})

	r.Route("/submissions/{submission_id}", func(r chi.Router) {
		r.Post("/approve", h.approveSubmission)
		r.Post("/reject", h.rejectSubmission)
	})

	r.Post("/maintenance/recompute-late-status", h.recomputeLateStatus)

	return r
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", errdefs.ErrValidation)
	}
	return nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, errdefs.ErrValidation)
	}
	return id, nil
}
