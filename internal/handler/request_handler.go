package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ldostudio/backend/internal/model"
	"github.com/ldostudio/backend/internal/repository"
	"github.com/ldostudio/backend/internal/service"
)

const maxMessageLength = 5000

// flashSubmitted is the one-shot acknowledgment returned in the submit
// response. It is an explicit response field, not session state: the client
// shows it once and discards it.
const flashSubmitted = "Thanks! We received your request and will get back to you."

// RequestHandler handles public intake and admin triage of client requests.
type RequestHandler struct {
	requestService service.RequestService
}

// NewRequestHandler creates a RequestHandler with the given service.
func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// submitResponse acknowledges a stored submission.
type submitResponse struct {
	OK    string `json:"ok"`
	ID    int64  `json:"id"`
	Flash string `json:"flash"`
}

// Submit handles POST /api/contact.
// name and contact are required; category is optional; message policy is
// configured on the service; message max 5000 chars.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if len([]rune(req.Message)) > maxMessageLength {
		writeError(w, http.StatusBadRequest, "message_too_long")
		return
	}

	cr := &model.ClientRequest{
		Name:     req.Name,
		Contact:  req.Contact,
		Category: req.Category,
		Message:  req.Message,
	}

	if err := h.requestService.Submit(r.Context(), cr); err != nil {
		if ve, ok := service.AsValidation(err); ok {
			writeError(w, http.StatusBadRequest, ve.Field+"_required")
			return
		}
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{OK: "true", ID: cr.ID, Flash: flashSubmitted})
}

// adminListResponse is the JSON response for GET /api/admin/requests.
type adminListResponse struct {
	Requests []*model.ClientRequest `json:"requests"`
	Total    int                    `json:"total"`
	Unread   int                    `json:"unread"`
}

// AdminList handles GET /api/admin/requests.
// Supports query params: status (all/new/in_progress/done), unread
// (true/false), limit, offset. Rows come back unread-first, newest-first.
func (h *RequestHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	opts := model.RequestListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  50,
		Offset: 0,
	}

	if u := r.URL.Query().Get("unread"); u != "" {
		if v, err := strconv.ParseBool(u); err == nil {
			opts.Unread = &v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	requests, counts, err := h.requestService.ViewAll(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	// Return [] not null for empty lists
	if requests == nil {
		requests = []*model.ClientRequest{}
	}

	writeJSON(w, http.StatusOK, adminListResponse{
		Requests: requests,
		Total:    counts.Total,
		Unread:   counts.Unread,
	})
}

// Toggle handles POST /api/admin/requests/{id}/toggle. The flip happens as a
// single atomic update in the store.
func (h *RequestHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	isRead, err := h.requestService.Toggle(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "request_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "toggle_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_read": isRead})
}

// patchRequest is the expected JSON body for PATCH /api/admin/requests/{id}.
type patchRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Patch handles PATCH /api/admin/requests/{id} (status and/or notes).
func (h *RequestHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	err := h.requestService.UpdateTriage(r.Context(), id, model.RequestPatch{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		if _, isValidation := service.AsValidation(err); isValidation {
			writeError(w, http.StatusBadRequest, "invalid_patch")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "request_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// Delete handles DELETE /api/admin/requests/{id}. Permanent, no undo.
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.requestService.Remove(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "request_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// statsResponse is the JSON response for GET /api/admin/requests/stats.
type statsResponse struct {
	Contacts []*model.ContactFrequency `json:"contacts"`
}

// Stats handles GET /api/admin/requests/stats: request counts per contact,
// most frequent first.
func (h *RequestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	freqs, err := h.requestService.ContactStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats_failed")
		return
	}
	if freqs == nil {
		freqs = []*model.ContactFrequency{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Contacts: freqs})
}

// pathID parses the {id} path segment; writes a 400 and returns false when
// it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return 0, false
	}
	return id, true
}
