package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dan9191/content-service/internal/authctx"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/service"
	"github.com/Dan9191/content-service/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// LoginPath is where unauthorized browser requests are sent
const LoginPath = "/login"

// Authorizer resolves a session or token subject to an admin user
type Authorizer interface {
	Authorize(ctx context.Context, userID int64) (*models.User, error)
	ParseToken(token string) (int64, error)
}

// AuthMiddleware is the access gate for protected routes. A request passes
// only if its session cookie or bearer token names a user whose admin flag is
// set right now; the user is looked up on every request. Browser requests that
// fail are redirected to the login page, bearer requests get a JSON 401. The
// authorized user is stored in the request context.
func AuthMiddleware(authz Authorizer, sessions *session.Manager, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				user, err := authorizeToken(r.Context(), authz, token)
				if err != nil {
					if !errors.Is(err, service.ErrInvalidToken) && !errors.Is(err, service.ErrUnauthorized) {
						log.WithError(err).Error("Failed to authorize token")
						writeJSONError(w, http.StatusInternalServerError, "internal server error")
						return
					}
					writeJSONError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), user)))
				return
			}

			userID, ok := sessions.UserID(r)
			if !ok {
				if err := sessions.AddFlash(w, r, "Please log in to access this page."); err != nil {
					log.WithError(err).Warn("Failed to save flash message")
				}
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			user, err := authz.Authorize(r.Context(), userID)
			if errors.Is(err, service.ErrUnauthorized) {
				log.WithField("user_id", userID).Warn("Access denied: admin required")
				if err := sessions.Logout(w, r); err != nil {
					log.WithError(err).WithField("user_id", userID).Warn("Failed to clear session")
				}
				if err := sessions.AddFlash(w, r, "Admin access required."); err != nil {
					log.WithError(err).Warn("Failed to save flash message")
				}
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			if err != nil {
				log.WithError(err).WithField("user_id", userID).Error("Failed to authorize session")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), user)))
		})
	}
}

func authorizeToken(ctx context.Context, authz Authorizer, token string) (*models.User, error) {
	userID, err := authz.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return authz.Authorize(ctx, userID)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		// present but unusable still takes the token path and fails there
		return "", true
	}
	return strings.TrimSpace(token), true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
