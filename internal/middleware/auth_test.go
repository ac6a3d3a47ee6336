package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/content-service/internal/authctx"
	"github.com/Dan9191/content-service/internal/config"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/repository/repotest"
	"github.com/Dan9191/content-service/internal/service"
	"github.com/Dan9191/content-service/internal/session"
	"github.com/Dan9191/content-service/internal/utils"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	utils.PasswordCost = bcrypt.MinCost
}

type gateEnv struct {
	svc      *service.Service
	store    *repotest.Store
	sessions *session.Manager
	router   *mux.Router
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repotest.New()
	svc := service.NewService(service.Stores{
		Users: store.Users(), Posts: store.Posts(), Pages: store.Pages(), Media: store.Media(),
	}, log, &config.Config{SecretKey: "secret", TokenTTL: time.Hour, MaxContentLength: 1, UploadFolder: t.TempDir()})
	sessions := session.NewManager([]byte("secret"), 3600, false)

	r := mux.NewRouter()
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(AuthMiddleware(svc, sessions, log))
	protected.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		user := authctx.User(r.Context())
		w.Write([]byte("hello " + user.Username))
	})

	return &gateEnv{svc: svc, store: store, sessions: sessions, router: r}
}

func (e *gateEnv) loginCookies(t *testing.T, userID int64) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, e.sessions.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), userID))
	return rec.Result().Cookies()
}

func (e *gateEnv) get(cookies []*http.Cookie, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestGate_AnonymousRedirectsToLogin(t *testing.T) {
	e := newGateEnv(t)

	rec := e.get(nil, "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestGate_AdminPasses(t *testing.T) {
	e := newGateEnv(t)
	admin, err := e.svc.CreateUser(context.Background(), "admin", "pw", true)
	require.NoError(t, err)

	rec := e.get(e.loginCookies(t, admin.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello admin", rec.Body.String())
}

func TestGate_NonAdminRedirectedAndUnbound(t *testing.T) {
	e := newGateEnv(t)
	editor, err := e.svc.CreateUser(context.Background(), "editor", "pw", false)
	require.NoError(t, err)

	rec := e.get(e.loginCookies(t, editor.ID), "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	// the cookie written on the way out no longer names the user
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	cookies := rec.Result().Cookies()
	req.AddCookie(cookies[len(cookies)-1])
	_, ok := e.sessions.UserID(req)
	assert.False(t, ok)
}

func TestGate_DemotionTakesEffectNextRequest(t *testing.T) {
	e := newGateEnv(t)
	ctx := context.Background()
	admin, err := e.svc.CreateUser(ctx, "admin", "pw", true)
	require.NoError(t, err)
	cookies := e.loginCookies(t, admin.ID)

	require.Equal(t, http.StatusOK, e.get(cookies, "").Code)

	demoted := false
	_, err = e.svc.UserAdmin().Update(ctx, admin.ID, &models.UserInput{IsAdmin: &demoted})
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, e.get(cookies, "").Code)
}

func TestGate_DeletedUserRedirects(t *testing.T) {
	e := newGateEnv(t)
	assert.Equal(t, http.StatusFound, e.get(e.loginCookies(t, 404), "").Code)
}

func TestGate_StoreFailureIs500(t *testing.T) {
	e := newGateEnv(t)
	cookies := e.loginCookies(t, 1)
	e.store.Err = errors.New("db down")

	assert.Equal(t, http.StatusInternalServerError, e.get(cookies, "").Code)
}

func TestGate_BearerToken(t *testing.T) {
	e := newGateEnv(t)
	ctx := context.Background()
	admin, err := e.svc.CreateUser(ctx, "admin", "pw", true)
	require.NoError(t, err)
	editor, err := e.svc.CreateUser(ctx, "editor", "pw", false)
	require.NoError(t, err)

	adminToken, _, err := e.svc.IssueToken(admin)
	require.NoError(t, err)
	editorToken, _, err := e.svc.IssueToken(editor)
	require.NoError(t, err)

	rec := e.get(nil, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello admin", rec.Body.String())

	rec = e.get(nil, "Bearer "+editorToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, e.get(nil, "Bearer nonsense").Code)
	assert.Equal(t, http.StatusUnauthorized, e.get(nil, "Basic YWRtaW46cHc=").Code)
}

func TestGate_SessionSaveFailureIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	store := repotest.New()
	svc := service.NewService(service.Stores{
		Users: store.Users(), Posts: store.Posts(), Pages: store.Pages(), Media: store.Media(),
	}, log, &config.Config{SecretKey: "secret", TokenTTL: time.Hour, MaxContentLength: 1, UploadFolder: t.TempDir()})
	// no hash key: every cookie encode fails
	sessions := session.NewManager(nil, 3600, false)

	r := mux.NewRouter()
	r.Use(AuthMiddleware(svc, sessions, log))
	r.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Failed to save flash message", entry.Message)
	assert.Error(t, entry.Data[logrus.ErrorKey].(error))
}
