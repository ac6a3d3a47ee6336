package handler

import (
	"crypto/sha256"
	"io"
	"net/http"

	"github.com/Dan9191/content-service/internal/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/hkdf"
)

const csrfCookieName = "cms_csrf"

// csrfKey derives the 32-byte token key from the application secret so the
// session and CSRF cookies never share a key
func csrfKey(secret string) []byte {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("cms csrf")), key); err != nil {
		panic(err)
	}
	return key
}

// csrfProtect guards the browser form routes. Requests carrying an
// Authorization header are not checked: a bearer token is never attached by
// the browser on its own, and the access gate still validates it.
func (h *Handler) csrfProtect() mux.MiddlewareFunc {
	protect := csrf.Protect(csrfKey(h.cfg.SecretKey),
		csrf.CookieName(csrfCookieName),
		csrf.Path("/"),
		csrf.MaxAge(h.cfg.SessionMaxAge),
		csrf.Secure(h.cfg.SessionSecure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(h.csrfFailure)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// without Secure cookies the site is served over plain HTTP and
			// origins have to be compared with the http scheme
			if !h.cfg.SessionSecure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			if r.Header.Get("Authorization") != "" {
				r = csrf.UnsafeSkipCheck(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) csrfFailure(w http.ResponseWriter, r *http.Request) {
	h.log.WithError(csrf.FailureReason(r)).WithField("path", r.URL.Path).Warn("Request rejected: CSRF check failed")
	if r.URL.Path == middleware.LoginPath {
		h.render(w, loginTemplate, http.StatusForbidden, loginPageData{
			Error:     "Your form has expired, please try again",
			CSRFField: csrf.TemplateField(r),
		})
		return
	}
	writeError(w, http.StatusForbidden, "invalid CSRF token")
}
