package handler

import (
	"errors"
	"net/http"

	"github.com/ldostudio/backend/internal/repository"
	"github.com/ldostudio/backend/pkg/auth"
)

// MeHandler returns the authenticated operator's own record.
type MeHandler struct {
	operators repository.OperatorRepository
}

// NewMeHandler creates a MeHandler with the given repository.
func NewMeHandler(operators repository.OperatorRepository) *MeHandler {
	return &MeHandler{operators: operators}
}

// Me handles GET /api/me. The route is wrapped by auth.RequireAuth, so the
// operator id is already in the context.
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := auth.OperatorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	op, err := h.operators.FindByID(r.Context(), operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "operator_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup_failed")
		return
	}

	writeJSON(w, http.StatusOK, op)
}
