package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/repository"
	"github.com/gorilla/mux"
)

// contentItem is the public shape of a post or page
type contentItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	Author    string `json:"author"`
}

func itemFrom(p models.Post) contentItem {
	return contentItem{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		Author:    p.Author,
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		// only reachable on overflow, the route already requires digits
		return 0, repository.ErrNotFound
	}
	return id, nil
}

// ListPosts handles GET /api/posts
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]contentItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, itemFrom(p))
	}
	writeJSON(w, http.StatusOK, items)
}

// GetPost handles GET /api/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	post, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemFrom(*post))
}

// ListPages handles GET /api/pages
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.svc.ListPages(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]contentItem, 0, len(pages))
	for _, p := range pages {
		items = append(items, itemFrom(models.Post(p)))
	}
	writeJSON(w, http.StatusOK, items)
}

// GetPage handles GET /api/pages/{id}
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.svc.GetPage(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemFrom(models.Post(*page)))
}
