package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cyberblog/internal/model"
	"cyberblog/internal/service"
	"cyberblog/pkg/apierror"
)

// BlogHandler serves the public read-only API. These routes sit outside
// the authorization gate.
type BlogHandler struct {
	posts *service.PostService
}

func NewBlogHandler(posts *service.PostService) *BlogHandler {
	return &BlogHandler{posts: posts}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Published(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.BlogPostsResponse{Posts: posts})
}

func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, apierror.New(http.StatusBadRequest, "Slug is required"))
		return
	}

	post, err := h.posts.PublishedBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.BlogPostResponse{Post: post})
}

func (h *BlogHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if tag == "" {
		writeError(w, apierror.New(http.StatusBadRequest, "Tag is required"))
		return
	}

	posts, err := h.posts.PublishedByTag(r.Context(), tag)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.BlogPostsResponse{Posts: posts})
}

func (h *BlogHandler) Search(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.BlogPostsResponse{Posts: posts})
}
