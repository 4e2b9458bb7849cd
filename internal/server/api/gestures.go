package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/skyhands/internal/gesture"
	"github.com/ayusman/skyhands/internal/store"
)

// Registry is the set of descriptions the tracker classifies against.
type Registry interface {
	Register(d gesture.Description)
	Remove(name string)
	Descriptions() []gesture.Description
}

// Defaults looks up the description to restore when a stored override is
// deleted. It is asked at delete time, so live threshold changes apply.
type Defaults interface {
	Default(name string) (gesture.Description, bool)
}

// DefaultList is a fixed set of defaults.
type DefaultList []gesture.Description

// Default returns the description called name.
func (l DefaultList) Default(name string) (gesture.Description, bool) {
	for _, d := range l {
		if d.Name == name {
			return d, true
		}
	}
	return gesture.Description{}, false
}

// GestureHandler handles HTTP requests for gesture descriptions. Stored
// gestures are registered with the live classifier as they change; deleting
// one that shadowed a default restores the default.
type GestureHandler struct {
	store    *store.Store
	registry Registry
	defaults Defaults
}

// NewGestureHandler creates a GestureHandler. registry may be nil, in which
// case changes are only persisted; defaults may be nil.
func NewGestureHandler(s *store.Store, registry Registry, defaults Defaults) *GestureHandler {
	return &GestureHandler{
		store:    s,
		registry: registry,
		defaults: defaults,
	}
}

// ServeHTTP routes /api/gestures and /api/gestures/{id}.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type gestureResponse struct {
	ID         string              `json:"id,omitempty"`
	Definition gesture.Description `json:"definition"`
	Active     bool                `json:"active"`
	Stored     bool                `json:"stored"`
	CreatedAt  string              `json:"created_at,omitempty"`
	UpdatedAt  string              `json:"updated_at,omitempty"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func (h *GestureHandler) active() map[string]bool {
	names := make(map[string]bool)
	if h.registry == nil {
		return names
	}
	for _, d := range h.registry.Descriptions() {
		names[d.Name] = true
	}
	return names
}

func toResponse(g *store.Gesture, active map[string]bool) gestureResponse {
	return gestureResponse{
		ID:         g.ID,
		Definition: g.Description,
		Active:     active[g.Name()],
		Stored:     true,
		CreatedAt:  g.CreatedAt.Format(timeFormat),
		UpdatedAt:  g.UpdatedAt.Format(timeFormat),
	}
}

// list handles GET /api/gestures: stored gestures first, then registered
// descriptions that only exist in memory.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	gestures, err := h.store.Gestures().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list gestures")
		return
	}

	active := h.active()
	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(gestures)),
	}
	stored := make(map[string]bool, len(gestures))
	for _, g := range gestures {
		stored[g.Name()] = true
		response.Gestures = append(response.Gestures, toResponse(g, active))
	}
	if h.registry != nil {
		for _, d := range h.registry.Descriptions() {
			if !stored[d.Name] {
				response.Gestures = append(response.Gestures, gestureResponse{Definition: d, Active: true})
			}
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/gestures/{id}.
func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(g, h.active()))
}

func decodeDescription(r *http.Request) (gesture.Description, error) {
	var d gesture.Description
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		return d, err
	}
	return d, d.Validate()
}

// create handles POST /api/gestures.
func (h *GestureHandler) create(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDescription(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.store.Gestures().GetByName(d.Name); err == nil {
		writeError(w, http.StatusConflict, "Gesture name already exists")
		return
	}

	g := &store.Gesture{Description: d}
	if err := h.store.Gestures().Create(g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create gesture")
		return
	}
	if h.registry != nil {
		h.registry.Register(d)
	}

	writeJSON(w, http.StatusCreated, toResponse(g, h.active()))
}

// update handles PUT /api/gestures/{id}, replacing the whole definition.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	d, err := decodeDescription(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	oldName := g.Name()
	g.Description = d
	if err := h.store.Gestures().Update(g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update gesture")
		return
	}

	if oldName != d.Name {
		h.unregister(oldName)
	}
	if h.registry != nil {
		h.registry.Register(d)
	}

	writeJSON(w, http.StatusOK, toResponse(g, h.active()))
}

// delete handles DELETE /api/gestures/{id}.
func (h *GestureHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err == nil {
		err = h.store.Gestures().Delete(id)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture")
		return
	}

	h.unregister(g.Name())
	w.WriteHeader(http.StatusNoContent)
}

// unregister drops name from the classifier, falling back to the default
// description of that name if there is one.
func (h *GestureHandler) unregister(name string) {
	if h.registry == nil {
		return
	}
	if h.defaults != nil {
		if d, ok := h.defaults.Default(name); ok {
			h.registry.Register(d)
			return
		}
	}
	h.registry.Remove(name)
}
