package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Dan9191/content-service/internal/middleware"
	"github.com/Dan9191/content-service/internal/service"
	"github.com/gorilla/csrf"
)

// Index sends logged in users to the admin panel and everyone else to login
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.UserID(r); ok {
		http.Redirect(w, r, AdminPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}

// redirectIfLoggedIn sends a session that is already bound on to the admin
// panel without looking at the submitted form
func (h *Handler) redirectIfLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.sessions.UserID(r); ok {
			status := http.StatusFound
			if r.Method == http.MethodPost {
				status = http.StatusSeeOther
			}
			http.Redirect(w, r, AdminPath, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginForm renders the login page with any pending flash messages
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, loginTemplate, http.StatusOK, loginPageData{
		Flashes:   h.sessions.Flashes(w, r),
		CSRFField: csrf.TemplateField(r),
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.render(w, loginTemplate, http.StatusBadRequest, loginPageData{
			Error:     "Username and password are required",
			Username:  username,
			CSRFField: csrf.TemplateField(r),
		})
		return
	}

	user, err := h.svc.Authenticate(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.render(w, loginTemplate, http.StatusUnauthorized, loginPageData{
			Error:     "Invalid username or password",
			Username:  username,
			CSRFField: csrf.TemplateField(r),
		})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to authenticate user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("Failed to save session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, AdminPath, http.StatusSeeOther)
}

// Logout drops the session binding. It is safe to call without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if userID, ok := h.sessions.UserID(r); ok {
		h.log.WithField("user_id", userID).Info("User logged out")
	}
	if err := h.sessions.Logout(w, r); err != nil {
		h.log.WithError(err).Error("Failed to clear session")
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token exchanges credentials for a bearer token accepted by the access gate
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.fail(w, r, service.ErrMissingCredentials)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, expiresAt, err := h.svc.IssueToken(user)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt.UTC()})
}
