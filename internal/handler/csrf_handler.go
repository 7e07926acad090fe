package handler

import (
	"net/http"

	"github.com/lugoda-hospital/backend/pkg/csrf"
)

// CSRFToken handles GET /api/csrf-token.
func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := csrf.NewToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_generation_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
