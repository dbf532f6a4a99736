package adapthttp

import (
	"errors"
	"net/http"

	"weblog/internal/app"
)

type postForm struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request) {
	var req postForm
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	post, err := s.posts.Create(r.Context(), userFrom(r.Context()), req.Title, req.Content)
	if errors.Is(err, app.ErrEmptyTitle) || errors.Is(err, app.ErrEmptyContent) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"post": post})
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFrom(r.Context())

	// GET serves the current post so a client can prefill its edit form.
	if r.Method == http.MethodGet {
		post, err := s.posts.Get(r.Context(), user, id)
		if err != nil {
			writePostError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"post": post})
		return
	}

	var req postForm
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	post, err := s.posts.Update(r.Context(), user, id, req.Title, req.Content)
	if err != nil {
		writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.posts.Delete(r.Context(), userFrom(r.Context()), id); err != nil {
		writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// writePostError maps post service failures to status codes.
func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, app.ErrNotOwner):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, app.ErrEmptyTitle), errors.Is(err, app.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
