package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/skyhands/internal/store"
)

// Applier applies setting changes to the running session.
type Applier interface {
	// Settings returns the live value of every known setting.
	Settings() map[string]string
	// ApplySetting makes a validated value take effect.
	ApplySetting(key, value string) error
	// ResetSetting restores the configured default of key.
	ResetSetting(key string) error
}

// SettingsHandler handles /api/settings and /api/settings/{key}.
type SettingsHandler struct {
	store   *store.Store
	applier Applier
}

// NewSettingsHandler creates a SettingsHandler. applier may be nil.
func NewSettingsHandler(s *store.Store, applier Applier) *SettingsHandler {
	return &SettingsHandler{store: s, applier: applier}
}

type settingsResponse struct {
	Live   map[string]string `json:"live"`
	Stored map[string]string `json:"stored"`
}

type setSettingRequest struct {
	Value string `json:"value"`
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ServeHTTP implements http.Handler.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/settings")
	key = strings.TrimPrefix(key, "/")

	if key == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, key)
	case http.MethodPut:
		h.set(w, r, key)
	case http.MethodDelete:
		h.reset(w, r, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	stored, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settings")
		return
	}
	resp := settingsResponse{Live: map[string]string{}, Stored: stored}
	if h.applier != nil {
		resp.Live = h.applier.Settings()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request, key string) {
	if h.applier != nil {
		if v, ok := h.applier.Settings()[key]; ok {
			writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: v})
			return
		}
	}
	v, err := h.store.Settings().Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Setting not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get setting")
		return
	}
	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: v})
}

func (h *SettingsHandler) set(w http.ResponseWriter, r *http.Request, key string) {
	var req setSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.Settings().Set(key, req.Value); err != nil {
		switch {
		case errors.Is(err, store.ErrUnknownSetting):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, store.ErrInvalidSetting):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
		}
		return
	}

	if h.applier != nil {
		if err := h.applier.ApplySetting(key, req.Value); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: req.Value})
}

func (h *SettingsHandler) reset(w http.ResponseWriter, r *http.Request, key string) {
	if !store.KnownSetting(key) {
		writeError(w, http.StatusNotFound, "Setting not found")
		return
	}
	if err := h.store.Settings().Delete(key); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to delete setting")
		return
	}
	if h.applier != nil {
		if err := h.applier.ResetSetting(key); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
