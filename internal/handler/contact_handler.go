package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lugoda-hospital/backend/internal/model"
	"github.com/lugoda-hospital/backend/internal/service"
)

const maxMessageLength = 5000

// ContactHandler handles public contact form submission.
type ContactHandler struct {
	submissions service.SubmissionService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(submissions service.SubmissionService) *ContactHandler {
	return &ContactHandler{submissions: submissions}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact.
// All four fields are required; message max 5000 chars.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if len([]rune(req.Message)) > maxMessageLength {
		writeError(w, http.StatusBadRequest, "message_too_long")
		return
	}

	sub := &model.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := h.submissions.Submit(r.Context(), sub); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			writeError(w, http.StatusBadRequest, "all_fields_required")
		case errors.Is(err, service.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "invalid_email")
		default:
			slog.Error("contact submission failed", "error", err)
			writeError(w, http.StatusInternalServerError, "submit_failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Thank you for contacting us. We will get back to you shortly.",
		"id":      sub.ID,
	})
}
