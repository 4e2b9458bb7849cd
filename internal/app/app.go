// Package app wires the camera, hand tracker, scene, renderer and debug
// server into one session.
package app

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/skyhands/internal/capture"
	"github.com/ayusman/skyhands/internal/config"
	"github.com/ayusman/skyhands/internal/detector"
	"github.com/ayusman/skyhands/internal/gesture"
	"github.com/ayusman/skyhands/internal/logging"
	"github.com/ayusman/skyhands/internal/render"
	"github.com/ayusman/skyhands/internal/scene"
	"github.com/ayusman/skyhands/internal/server"
	"github.com/ayusman/skyhands/internal/store"
)

// Options holds the collaborators of a session. Camera and Renderer are
// required.
type Options struct {
	Config   config.Config
	Camera   capture.Camera
	Detector detector.Detector
	Renderer render.Renderer
	// Store persists settings and custom gestures; optional.
	Store  *store.Store
	Logger *zap.Logger
	// StaticDir is served by the debug server at /; optional.
	StaticDir string
	// OnFrame is called from the frame loop after every frame.
	OnFrame func(scene.Snapshot)
	// OnInteractive is called whenever hand interaction is switched, from
	// any source.
	OnInteractive func(bool)
}

// Session is one run of the toy.
type Session struct {
	id       string
	cfg      config.Config
	camera   capture.Camera
	gate     *capture.MotionGate
	tracker  *detector.Tracker
	gestures *gesture.Classifier
	defaults []gesture.Description
	scene    *scene.Scene
	renderer render.Renderer
	stream   *render.Stream
	canvas   *render.Canvas
	server   *server.Server
	store    *store.Store
	onFrame  func(scene.Snapshot)
	onToggle func(bool)
	log      *zap.Logger

	// Loop state.
	cameraOK     bool
	trackingLost bool

	noticeMu sync.Mutex
	notices  []string

	snap atomic.Pointer[scene.Snapshot]

	mu          sync.RWMutex
	padding     float64
	confidence  float64
	interactive bool
}

// New builds a session: gesture descriptions, tracker and scene with the
// default cast laid out for the renderer's current size. Stored settings are
// applied on top of cfg.
func New(opts Options) (*Session, error) {
	if opts.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("app: renderer is required")
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	log = logging.OrNop(log)
	id := uuid.NewString()
	log = log.With(zap.String("session", id))

	s := &Session{
		id:          id,
		cfg:         cfg,
		camera:      opts.Camera,
		renderer:    opts.Renderer,
		store:       opts.Store,
		onFrame:     opts.OnFrame,
		onToggle:    opts.OnInteractive,
		log:         log,
		padding:     cfg.Padding,
		confidence:  cfg.GestureConfidence,
		interactive: true,
	}

	if err := s.loadGestures(); err != nil {
		return nil, err
	}

	det := opts.Detector
	if det == nil {
		det = detector.Unavailable(errors.New("no hand detector configured"))
	}
	s.gate = capture.NewMotionGate(cfg.MotionPercent)
	s.tracker = detector.NewTracker(detector.TrackerConfig{
		Enabled: cfg.TrackingEnabled,
		Detection: detector.Config{
			MaxHands:        cfg.MaxHands,
			MinConfidence:   cfg.MinDetectionConfidence,
			MinTrackingConf: cfg.MinTrackingConfidence,
		},
	}, det, s.gestures, s.gate, log)

	sceneCfg := scene.Config{
		Capture: cfg.Capture(),
		Padding: cfg.Padding,
		Gesture: gesture.GrabGesture,
	}
	cast := scene.DefaultCast(sceneCfg.Capture, s.renderer.Size())
	s.scene = scene.New(sceneCfg, s.tracker, s.renderer, log, cast...)

	s.stream = render.NewStream(0)
	s.canvas = render.NewCanvas(sceneCfg.Capture)
	initial := s.scene.Snapshot()
	s.snap.Store(&initial)

	s.loadSettings()

	if cfg.HTTPEnabled() {
		s.server = server.New(server.Config{
			StaticDir:       opts.StaticDir,
			Store:           s.store,
			Scene:           s,
			Stream:          s.stream,
			Gestures:        s.gestures,
			DefaultGestures: s,
			Settings:        s,
			Broadcast:       cfg.Broadcast,
			Logger:          log,
		})
	}

	return s, nil
}

// loadGestures registers the builtin descriptions, then those from the
// gestures file, then stored ones; later sources override earlier ones by
// name.
func (s *Session) loadGestures() error {
	builtin := gesture.Builtin()
	for i := range builtin {
		if builtin[i].Name == gesture.GrabGesture {
			builtin[i].Confidence = s.cfg.GestureConfidence
		}
	}
	s.gestures = gesture.NewClassifier(builtin...)

	if path := s.cfg.GesturesFile; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open gestures file: %w", err)
		}
		descs, err := gesture.LoadDescriptions(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		for _, d := range descs {
			s.gestures.Register(d)
		}
	}
	s.defaults = s.gestures.Descriptions()

	if s.store == nil {
		return nil
	}
	stored, err := s.store.Gestures().Descriptions()
	if err != nil {
		return fmt.Errorf("load stored gestures: %w", err)
	}
	for _, d := range stored {
		s.gestures.Register(d)
	}
	s.log.Info("gestures loaded",
		zap.Int("defaults", len(s.defaults)),
		zap.Int("stored", len(stored)),
	)
	return nil
}

// loadSettings applies stored overrides. Bad values are logged and skipped.
func (s *Session) loadSettings() {
	if s.store == nil {
		return
	}
	all, err := s.store.Settings().All()
	if err != nil {
		s.log.Warn("failed to read settings", zap.Error(err))
		return
	}
	for key, value := range all {
		if err := s.ApplySetting(key, value); err != nil {
			s.log.Warn("ignoring stored setting", zap.String("key", key), zap.Error(err))
		}
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Scene returns the scene driven by the frame loop.
func (s *Session) Scene() *scene.Scene {
	return s.scene
}

// Tracker returns the hand tracker.
func (s *Session) Tracker() *detector.Tracker {
	return s.tracker
}

// Gestures returns the live gesture classifier.
func (s *Session) Gestures() *gesture.Classifier {
	return s.gestures
}

// Default returns the description restored when a stored override called
// name is deleted. The grab threshold follows the live setting.
func (s *Session) Default(name string) (gesture.Description, bool) {
	for _, d := range s.defaults {
		if d.Name != name {
			continue
		}
		if name == gesture.GrabGesture {
			s.mu.RLock()
			d.Confidence = s.confidence
			s.mu.RUnlock()
		}
		return d, true
	}
	return gesture.Description{}, false
}

// Server returns the debug server, or nil when disabled.
func (s *Session) Server() *server.Server {
	return s.server
}

// Snapshot returns the scene as of the last completed frame. It is safe to
// call from any goroutine.
func (s *Session) Snapshot() scene.Snapshot {
	return *s.snap.Load()
}

// SetInteractive turns hand interaction on or off. While off the tracker is
// paused and entities keep drifting.
func (s *Session) SetInteractive(on bool) {
	s.mu.Lock()
	s.interactive = on
	s.mu.Unlock()

	s.tracker.SetPaused(!on)
	s.log.Info("hand interaction toggled", zap.Bool("interactive", on))
	if s.onToggle != nil {
		s.onToggle(on)
	}
}

// addNotice adds a diagnostic line shown on every following frame.
func (s *Session) addNotice(msg string) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	s.notices = append(s.notices, msg)
}

// Notice returns the diagnostics shown on the canvas, or "" when all is well.
func (s *Session) Notice() string {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	return strings.Join(s.notices, " | ")
}

// Interactive reports whether hand interaction is on.
func (s *Session) Interactive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interactive
}

func (s *Session) currentPadding() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.padding
}

// Settings returns the live value of every known setting.
func (s *Session) Settings() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]string{
		store.KeyPadding:           formatFloat(s.padding),
		store.KeyGestureConfidence: formatFloat(s.confidence),
		store.KeyInteractive:       strconv.FormatBool(s.interactive),
	}
}

// ApplySetting makes a setting take effect. Padding is picked up by the next
// frame.
func (s *Session) ApplySetting(key, value string) error {
	if err := store.CheckSetting(key, value); err != nil {
		return err
	}

	switch key {
	case store.KeyPadding:
		v, _ := strconv.ParseFloat(value, 64)
		s.mu.Lock()
		s.padding = v
		s.mu.Unlock()
	case store.KeyGestureConfidence:
		v, _ := strconv.ParseFloat(value, 64)
		s.mu.Lock()
		s.confidence = v
		s.mu.Unlock()
		s.gestures.SetConfidence(gesture.GrabGesture, v)
	case store.KeyInteractive:
		v, _ := strconv.ParseBool(value)
		s.SetInteractive(v)
	}
	return nil
}

// ResetSetting restores the configured value of key.
func (s *Session) ResetSetting(key string) error {
	switch key {
	case store.KeyPadding:
		return s.ApplySetting(key, formatFloat(s.cfg.Padding))
	case store.KeyGestureConfidence:
		return s.ApplySetting(key, formatFloat(s.cfg.GestureConfidence))
	case store.KeyInteractive:
		return s.ApplySetting(key, "true")
	}
	return fmt.Errorf("%w: %q", store.ErrUnknownSetting, key)
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
