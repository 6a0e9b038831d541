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

// PostHandler serves the public blog and its admin CRUD.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a PostHandler with the given service.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// postBody is the expected JSON body for create and update.
type postBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// List handles GET /api/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := 20, 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	posts, err := h.postService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create handles POST /api/admin/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req postBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	post, err := h.postService.Create(r.Context(), req.Title, req.Body)
	if err != nil {
		if ve, ok := service.AsValidation(err); ok {
			writeError(w, http.StatusBadRequest, ve.Field+"_required")
			return
		}
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update handles PUT /api/admin/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req postBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	post, err := h.postService.Update(r.Context(), id, req.Title, req.Body)
	if err != nil {
		if ve, ok := service.AsValidation(err); ok {
			writeError(w, http.StatusBadRequest, ve.Field+"_required")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/admin/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
