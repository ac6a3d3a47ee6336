// Package admin is a small JSON admin panel: a set of generic model views
// mounted under one prefix behind a single access gate.
package admin

import (
	"net/http"

	"github.com/Dan9191/content-service/internal/authctx"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// StatusFunc maps a store error to an HTTP status and client message
type StatusFunc func(err error) (int, string)

// Panel groups admin views behind gate
type Panel struct {
	prefix string
	gate   mux.MiddlewareFunc
	status StatusFunc
	log    *logrus.Logger
	views  []View
}

// NewPanel creates a panel served under prefix
func NewPanel(prefix string, gate mux.MiddlewareFunc, status StatusFunc, log *logrus.Logger) *Panel {
	return &Panel{prefix: prefix, gate: gate, status: status, log: log}
}

// AddView registers v; call before Mount
func (p *Panel) AddView(v View) {
	p.views = append(p.views, v)
}

// Mount attaches the index and every view to r. The gate wraps all of them.
func (p *Panel) Mount(r *mux.Router) {
	r.Handle(p.prefix, http.RedirectHandler(p.prefix+"/", http.StatusMovedPermanently))

	sub := r.PathPrefix(p.prefix).Subrouter()
	sub.Use(p.gate)
	sub.HandleFunc("/", p.index).Methods(http.MethodGet)
	for _, v := range p.views {
		v.register(sub, p)
	}
}

type viewInfo struct {
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	Operations []string `json:"operations"`
}

func (p *Panel) index(w http.ResponseWriter, r *http.Request) {
	views := make([]viewInfo, 0, len(p.views))
	for _, v := range p.views {
		views = append(views, viewInfo{Name: v.Name(), URL: p.prefix + "/" + v.Name() + "/", Operations: v.Operations()})
	}

	resp := map[string]any{"views": views}
	if user := authctx.User(r.Context()); user != nil {
		resp["user"] = user.Username
	}
	writeJSON(w, http.StatusOK, resp)
}

func (p *Panel) fail(w http.ResponseWriter, r *http.Request, view string, err error) {
	status, msg := p.status(err)
	entry := p.log.WithError(err).WithFields(logrus.Fields{"view": view, "method": r.Method, "path": r.URL.Path})
	if status >= http.StatusInternalServerError {
		entry.Error("Admin operation failed")
	} else {
		entry.Info("Admin operation rejected")
	}
	writeError(w, status, msg)
}
