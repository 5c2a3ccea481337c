package classwork_http

import (
	"fmt"
	"net/http"

	"classwork_service/internal/ctxdata"
	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
	"classwork_service/internal/service"
)

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), &service.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Password:    req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := toGroupResponse(group)
	if role, _ := ctxdata.GetUserRole(r.Context()); role == string(domain.UserRoleStudent) {
		resp.AdminJoinCode = ""
		resp.StudentJoinCode = ""
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) joinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.JoinGroup(r.Context(), req.Code, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// Join codes stay hidden from whoever just joined with the student code.
	resp := toGroupResponse(group)
	resp.AdminJoinCode = ""
	resp.StudentJoinCode = ""
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) leaveGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.groups.LeaveGroup(r.Context(), groupID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.groups.DeleteGroup(r.Context(), groupID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addSubGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req subGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	subGroup, err := h.groups.AddSubGroup(r.Context(), groupID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubGroupResponse(subGroup))
}

// editSubGroup applies a partial update on top of the stored subgroup, so a
// rename-only request leaves the current status untouched.
func (h *Handler) editSubGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeError(w, err)
		return
	}
	subGroupID, err := uuidParam(r, "subgroup_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req editSubGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	var subGroup *domain.SubGroup
	for i := range group.SubGroups {
		if group.SubGroups[i].ID == subGroupID {
			subGroup = &group.SubGroups[i]
			break
		}
	}
	if subGroup == nil {
		writeError(w, fmt.Errorf("subgroup not found: %w", errdefs.ErrNotFound))
		return
	}

	if req.Name != nil {
		subGroup.Name = *req.Name
	}
	if req.Status != nil {
		status := domain.SubGroupStatus(*req.Status)
		if !status.IsValid() {
			writeError(w, fmt.Errorf("invalid subgroup status: %w", errdefs.ErrValidation))
			return
		}
		subGroup.Status = status
	}

	if err := h.groups.EditSubGroup(r.Context(), subGroup); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubGroupResponse(subGroup))
}

func (h *Handler) deleteSubGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeError(w, err)
		return
	}
	subGroupID, err := uuidParam(r, "subgroup_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.groups.DeleteSubGroup(r.Context(), groupID, subGroupID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
