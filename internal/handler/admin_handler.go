package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lugoda-hospital/backend/internal/mailer"
	"github.com/lugoda-hospital/backend/internal/model"
	"github.com/lugoda-hospital/backend/internal/repository"
	"github.com/lugoda-hospital/backend/internal/service"
)

// AdminHandler handles the staff triage endpoints under /api/admin.
// Authentication happens at the gateway (Basic auth middleware); these
// handlers assume the caller is already an admin.
type AdminHandler struct {
	admin service.AdminService
}

// NewAdminHandler creates an AdminHandler with the given service.
func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// listResponse is the JSON response for GET /api/admin/submissions.
type listResponse struct {
	Submissions []*model.Submission `json:"submissions"`
	Total       int                 `json:"total"`
	Page        int                 `json:"page"`
	TotalPages  int                 `json:"totalPages"`
}

// List handles GET /api/admin/submissions.
// Supports query params: page (1-based), limit.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 10

	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	result, err := h.admin.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("admin list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	// Return [] not null for empty pages
	if result.Submissions == nil {
		result.Submissions = []*model.Submission{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Submissions: result.Submissions,
		Total:       result.Total,
		Page:        result.Page,
		TotalPages:  result.TotalPages,
	})
}

// statusRequest is the expected JSON body for PATCH /api/admin/submissions/{id}.
type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/submissions/{id}.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := h.admin.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid_status")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "submission_not_found")
		default:
			slog.Error("status update failed", "submission_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "update_failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}

// Delete handles DELETE /api/admin/submissions/{id}. Deletion is permanent.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.admin.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "submission_not_found")
			return
		}
		slog.Error("delete failed", "submission_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "submission deleted"})
}

// replyRequest is the expected JSON body for POST /api/admin/reply/{id}.
type replyRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Reply handles POST /api/admin/reply/{id}. A send failure surfaces the
// transport detail so an operator can fix the configuration.
func (h *AdminHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Subject == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "subject_and_message_required")
		return
	}

	sentTo, err := h.admin.Reply(r.Context(), id, req.Subject, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "submission_not_found")
		case errors.Is(err, mailer.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, "mail_not_configured")
		default:
			slog.Error("reply failed", "submission_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "send failed: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "reply sent",
		"sentTo":  sentTo,
	})
}

// pathID parses the {id} path segment, writing a 404 on garbage. An id
// that is not a number can never name a submission.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "submission_not_found")
		return 0, false
	}
	return id, true
}
