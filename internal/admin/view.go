package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// Store is the minimum a model must offer to appear in the panel
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
}

// Creator is implemented by stores whose view allows create. In is the
// request body type, T the stored record.
type Creator[In, T any] interface {
	Create(ctx context.Context, in *In) (*T, error)
}

// Updater is implemented by stores whose view allows edit. Implementations
// decide which fields of in are applied to the stored record.
type Updater[In, T any] interface {
	Update(ctx context.Context, id int64, in *In) (*T, error)
}

// Deleter is implemented by stores whose view allows delete
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// View is a registered admin screen
type View interface {
	Name() string
	Operations() []string
	register(r *mux.Router, p *Panel)
}

// ModelView serves list/read/create/edit/delete for one model type. Which
// operations exist follows from the interfaces its store implements. Create
// and edit bodies are decoded into In, which may equal T.
type ModelView[T, In any] struct {
	name  string
	store Store[T]
	panel *Panel
}

// NewModelView creates a view named name backed by store
func NewModelView[T, In any](name string, store Store[T]) *ModelView[T, In] {
	return &ModelView[T, In]{name: name, store: store}
}

func (v *ModelView[T, In]) Name() string { return v.name }

func (v *ModelView[T, In]) Operations() []string {
	ops := []string{"list", "read"}
	if _, ok := v.store.(Creator[In, T]); ok {
		ops = append(ops, "create")
	}
	if _, ok := v.store.(Updater[In, T]); ok {
		ops = append(ops, "edit")
	}
	if _, ok := v.store.(Deleter); ok {
		ops = append(ops, "delete")
	}
	return ops
}

func (v *ModelView[T, In]) register(r *mux.Router, p *Panel) {
	v.panel = p
	for _, path := range []string{"/" + v.name, "/" + v.name + "/"} {
		r.HandleFunc(path, v.list).Methods(http.MethodGet)
		r.HandleFunc(path, v.create).Methods(http.MethodPost)
	}
	item := "/" + v.name + "/{id:[0-9]+}"
	r.HandleFunc(item, v.get).Methods(http.MethodGet)
	r.HandleFunc(item, v.update).Methods(http.MethodPut)
	r.HandleFunc(item, v.delete).Methods(http.MethodDelete)
}

func (v *ModelView[T, In]) list(w http.ResponseWriter, r *http.Request) {
	items, err := v.store.List(r.Context())
	if err != nil {
		v.panel.fail(w, r, v.name, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (v *ModelView[T, In]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	item, err := v.store.Get(r.Context(), id)
	if err != nil {
		v.panel.fail(w, r, v.name, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (v *ModelView[T, In]) create(w http.ResponseWriter, r *http.Request) {
	c, ok := v.store.(Creator[In, T])
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, "create is not allowed for "+v.name)
		return
	}
	in, ok := decode[In](w, r)
	if !ok {
		return
	}
	item, err := c.Create(r.Context(), in)
	if err != nil {
		v.panel.fail(w, r, v.name, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (v *ModelView[T, In]) update(w http.ResponseWriter, r *http.Request) {
	u, ok := v.store.(Updater[In, T])
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, "edit is not allowed for "+v.name)
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	in, ok := decode[In](w, r)
	if !ok {
		return
	}
	item, err := u.Update(r.Context(), id, in)
	if err != nil {
		v.panel.fail(w, r, v.name, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (v *ModelView[T, In]) delete(w http.ResponseWriter, r *http.Request) {
	d, ok := v.store.(Deleter)
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, "delete is not allowed for "+v.name)
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := d.Delete(r.Context(), id); err != nil {
		v.panel.fail(w, r, v.name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decode[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	in := new(T)
	if err := json.NewDecoder(r.Body).Decode(in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return in, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
