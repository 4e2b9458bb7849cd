// Package server provides the HTTP debug server: health, live scene state,
// the rendered canvas as MJPEG, gesture descriptions and settings.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/skyhands/internal/logging"
	"github.com/ayusman/skyhands/internal/render"
	"github.com/ayusman/skyhands/internal/scene"
	"github.com/ayusman/skyhands/internal/server/api"
	"github.com/ayusman/skyhands/internal/store"
)

// DefaultBroadcastInterval is how often websocket clients receive a scene
// snapshot.
const DefaultBroadcastInterval = 100 * time.Millisecond

// SceneSource supplies the latest published scene snapshot.
type SceneSource interface {
	Snapshot() scene.Snapshot
}

// Config holds the server configuration. Every component is optional; the
// matching routes are only registered when it is set.
type Config struct {
	StaticDir string
	Store     *store.Store
	Scene     SceneSource
	Stream    *render.Stream
	Gestures  api.Registry
	// DefaultGestures are restored when a stored override is deleted.
	DefaultGestures api.Defaults
	Settings        api.Applier
	Broadcast       time.Duration
	Logger          *zap.Logger
}

// Server represents the HTTP debug server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    *zap.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Broadcast <= 0 {
		config.Broadcast = DefaultBroadcastInterval
	}
	log := config.Logger
	log = logging.OrNop(log)
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    log.Named("server"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Scene != nil {
		s.mux.HandleFunc("/api/scene", s.handleScene)
		s.mux.Handle("/api/scene/ws", NewSceneHandler(s.config.Scene, s.config.Broadcast, s.log))
	}

	if s.config.Stream != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Stream))
	}

	if s.config.Store != nil {
		gestures := api.NewGestureHandler(s.config.Store, s.config.Gestures, s.config.DefaultGestures)
		s.mux.Handle("/api/gestures", gestures)
		s.mux.Handle("/api/gestures/", gestures)

		settings := api.NewSettingsHandler(s.config.Store, s.config.Settings)
		s.mux.Handle("/api/settings", settings)
		s.mux.Handle("/api/settings/", settings)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleScene handles GET requests to /api/scene.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.config.Scene.Snapshot())
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("debug server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
