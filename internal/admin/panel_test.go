package admin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Dan9191/content-service/internal/authctx"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

type note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	By   int64  `json:"by"`
}

// readOnly implements only Store
type readOnly struct {
	mu    sync.Mutex
	items map[int64]note
}

func (s *readOnly) List(context.Context) ([]note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []note{}
	for id := int64(1); id <= int64(len(s.items)); id++ {
		if n, ok := s.items[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *readOnly) Get(_ context.Context, id int64) (*note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return nil, errMissing
	}
	return &n, nil
}

// full adds create, edit and delete
type full struct{ readOnly }

func (s *full) Create(ctx context.Context, in *note) (*note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = int64(len(s.items) + 1)
	in.By = authctx.User(ctx).ID
	s.items[in.ID] = *in
	return in, nil
}

func (s *full) Update(_ context.Context, id int64, in *note) (*note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return nil, errMissing
	}
	n.Text = in.Text
	s.items[id] = n
	return &n, nil
}

func (s *full) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errMissing
	}
	delete(s.items, id)
	return nil
}

func status(err error) (int, string) {
	if errors.Is(err, errMissing) {
		return http.StatusNotFound, "not found"
	}
	return http.StatusInternalServerError, "internal server error"
}

// gate lets requests with X-Admin through as user 9 and redirects the rest
func gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Admin") == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), &models.User{ID: 9, Username: "root", IsAdmin: true})))
	})
}

func newPanel(t *testing.T) *mux.Router {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	p := NewPanel("/admin", gate, status, log)
	p.AddView(NewModelView[note, note]("notes", &full{readOnly{items: map[int64]note{}}}))
	p.AddView(NewModelView[note, note]("archive", &readOnly{items: map[int64]note{1: {ID: 1, Text: "old"}}}))

	r := mux.NewRouter()
	p.Mount(r)
	return r
}

func do(r http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if admin {
		req.Header.Set("X-Admin", "1")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPanel_GateOnEveryRoute(t *testing.T) {
	r := newPanel(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/admin/"},
		{http.MethodGet, "/admin/notes/"},
		{http.MethodPost, "/admin/notes/"},
		{http.MethodGet, "/admin/notes/1"},
		{http.MethodPut, "/admin/notes/1"},
		{http.MethodDelete, "/admin/notes/1"},
		{http.MethodGet, "/admin/archive"},
	} {
		rec := do(r, tc.method, tc.path, `{}`, false)
		assert.Equal(t, http.StatusFound, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	}
}

func TestPanel_Index(t *testing.T) {
	r := newPanel(t)

	rec := do(r, http.MethodGet, "/admin/", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"user": "root",
		"views": [
			{"name": "notes", "url": "/admin/notes/", "operations": ["list", "read", "create", "edit", "delete"]},
			{"name": "archive", "url": "/admin/archive/", "operations": ["list", "read"]}
		]
	}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/admin", "", true)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
}

func TestModelView_CRUD(t *testing.T) {
	r := newPanel(t)

	rec := do(r, http.MethodPost, "/admin/notes/", `{"text":"hi","by":1}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"text":"hi","by":9}`, rec.Body.String())

	rec = do(r, http.MethodPut, "/admin/notes/1", `{"text":"edited","by":5}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"text":"edited","by":9}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/admin/notes", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"text":"edited","by":9}]`, rec.Body.String())

	rec = do(r, http.MethodDelete, "/admin/notes/1", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodGet, "/admin/notes/1", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestModelView_BadInput(t *testing.T) {
	r := newPanel(t)

	rec := do(r, http.MethodPost, "/admin/notes/", `{not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/admin/notes/abc", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModelView_UnsupportedOperations(t *testing.T) {
	r := newPanel(t)

	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodPost, "/admin/archive/", `{"text":"x"}`, true).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodPut, "/admin/archive/1", `{"text":"x"}`, true).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodDelete, "/admin/archive/1", "", true).Code)

	rec := do(r, http.MethodGet, "/admin/archive/1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"text":"old","by":0}`, rec.Body.String())
}
