package handler

import (
	"net/http"

	"github.com/Dan9191/content-service/internal/authctx"
	"github.com/Dan9191/content-service/internal/models"
)

type homeResponse struct {
	User string `json:"user"`
	models.Counts
}

// Home returns the dashboard counts for the signed in admin
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Counts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, homeResponse{User: authctx.User(r.Context()).Username, Counts: *counts})
}
