package handler

import (
	"net/http"
	"strings"

	"github.com/Dan9191/content-service/internal/admin"
	"github.com/Dan9191/content-service/internal/config"
	"github.com/Dan9191/content-service/internal/middleware"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/service"
	"github.com/Dan9191/content-service/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// AdminPath is the landing area after login
const AdminPath = "/admin/"

type Handler struct {
	svc      *service.Service
	sessions *session.Manager
	log      *logrus.Logger
	cfg      *config.Config
	metrics  *middleware.Metrics
}

func NewHandler(svc *service.Service, sessions *session.Manager, log *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{svc: svc, sessions: sessions, log: log, cfg: cfg, metrics: middleware.NewMetrics()}
}

// Router wires every route. Everything except the login flow, the public
// API, metrics and uploaded files sits behind the access gate.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(h.metrics.Middleware)
	r.NotFoundHandler = h.metrics.Middleware(http.NotFoundHandler())
	r.MethodNotAllowedHandler = h.metrics.Middleware(http.HandlerFunc(methodNotAllowed))
	gate := middleware.AuthMiddleware(h.svc, h.sessions, h.log)
	forms := h.csrfProtect()

	// Public routes
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.Handle("/login", h.redirectIfLoggedIn(forms(http.HandlerFunc(h.LoginForm)))).Methods(http.MethodGet)
	r.Handle("/login", h.redirectIfLoggedIn(forms(http.HandlerFunc(h.Login)))).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/token", h.Token).Methods(http.MethodPost)
	r.HandleFunc("/api/posts", h.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{id:[0-9]+}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/api/pages", h.ListPages).Methods(http.MethodGet)
	r.HandleFunc("/api/pages/{id:[0-9]+}", h.GetPage).Methods(http.MethodGet)
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(h.cfg.UploadFolder)))))

	// Protected routes
	protected := r.NewRoute().Subrouter()
	protected.Use(gate)
	protected.HandleFunc("/home", h.Home).Methods(http.MethodGet)
	protected.Handle("/upload", forms(http.HandlerFunc(h.UploadForm))).Methods(http.MethodGet)
	protected.Handle("/upload", h.parseUpload(forms(http.HandlerFunc(h.Upload)))).Methods(http.MethodPost)

	// Admin panel
	panel := admin.NewPanel(strings.TrimSuffix(AdminPath, "/"), gate, statusFor, h.log)
	panel.AddView(admin.NewModelView[models.User, models.UserInput]("users", h.svc.UserAdmin()))
	panel.AddView(admin.NewModelView[models.Post, models.Post]("posts", h.svc.PostAdmin()))
	panel.AddView(admin.NewModelView[models.Page, models.Page]("pages", h.svc.PageAdmin()))
	panel.AddView(admin.NewModelView[models.Media, models.Media]("media", h.svc.MediaAdmin()))
	panel.Mount(r)

	return middleware.Logging(h.log)(r)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// noListing hides directory indexes of the upload folder
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
