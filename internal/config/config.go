// Package config loads runtime configuration from SKYHANDS_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/skyhands/internal/geom"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SKYHANDS_"

// Renderer names.
const (
	RendererWindow   = "window"
	RendererTerminal = "terminal"
)

// HTTPOff disables the debug server when used as HTTP_ADDR. An empty value
// cannot be told apart from an unset one.
const HTTPOff = "off"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete runtime configuration.
type Config struct {
	CameraID      int `env:"CAMERA_ID" envDefault:"0"`
	CaptureWidth  int `env:"CAPTURE_WIDTH" envDefault:"1200"`
	CaptureHeight int `env:"CAPTURE_HEIGHT" envDefault:"900"`
	WindowWidth   int `env:"WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight  int `env:"WINDOW_HEIGHT" envDefault:"960"`
	FPS           int `env:"FPS" envDefault:"30"`

	Padding float64 `env:"PADDING" envDefault:"100"`

	TrackingEnabled        bool    `env:"TRACKING" envDefault:"true"`
	MaxHands               int     `env:"MAX_HANDS" envDefault:"1"`
	MinDetectionConfidence float64 `env:"MIN_DETECTION_CONFIDENCE" envDefault:"0.7"`
	MinTrackingConfidence  float64 `env:"MIN_TRACKING_CONFIDENCE" envDefault:"0.5"`
	GestureConfidence      float64 `env:"GESTURE_CONFIDENCE" envDefault:"5.0"`
	GesturesFile           string  `env:"GESTURES_FILE"`
	MotionPercent          float64 `env:"MOTION_PERCENT" envDefault:"0.5"`

	HTTPAddr  string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	Broadcast time.Duration `env:"BROADCAST_INTERVAL" envDefault:"100ms"`

	DataDir string `env:"DATA_DIR"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	Renderer string `env:"RENDERER" envDefault:"window"`
	Tray     bool   `env:"TRAY" envDefault:"false"`
}

// Load parses the environment. An unset DATA_DIR resolves to ~/.skyhands.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".skyhands")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.CameraID < 0:
		return fmt.Errorf("%w: camera id %d", ErrInvalid, c.CameraID)
	case c.CaptureWidth <= 0 || c.CaptureHeight <= 0:
		return fmt.Errorf("%w: capture size %dx%d", ErrInvalid, c.CaptureWidth, c.CaptureHeight)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.WindowWidth, c.WindowHeight)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	case c.Padding < 0:
		return fmt.Errorf("%w: padding %v", ErrInvalid, c.Padding)
	case c.MaxHands < 1 || c.MaxHands > 2:
		return fmt.Errorf("%w: max hands %d", ErrInvalid, c.MaxHands)
	case !unit(c.MinDetectionConfidence):
		return fmt.Errorf("%w: min detection confidence %v", ErrInvalid, c.MinDetectionConfidence)
	case !unit(c.MinTrackingConfidence):
		return fmt.Errorf("%w: min tracking confidence %v", ErrInvalid, c.MinTrackingConfidence)
	case c.GestureConfidence < 0 || c.GestureConfidence > 10:
		return fmt.Errorf("%w: gesture confidence %v", ErrInvalid, c.GestureConfidence)
	case c.MotionPercent < 0 || c.MotionPercent > 100:
		return fmt.Errorf("%w: motion percent %v", ErrInvalid, c.MotionPercent)
	case c.Broadcast <= 0:
		return fmt.Errorf("%w: broadcast interval %v", ErrInvalid, c.Broadcast)
	case c.Renderer != RendererWindow && c.Renderer != RendererTerminal:
		return fmt.Errorf("%w: renderer %q", ErrInvalid, c.Renderer)
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// Capture returns the capture size.
func (c Config) Capture() geom.Size {
	return geom.Sz(float64(c.CaptureWidth), float64(c.CaptureHeight))
}

// Window returns the initial window size.
func (c Config) Window() geom.Size {
	return geom.Sz(float64(c.WindowWidth), float64(c.WindowHeight))
}

// FrameInterval is the time budget of one frame.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// HTTPEnabled reports whether the debug server should listen.
func (c Config) HTTPEnabled() bool {
	return c.HTTPAddr != "" && c.HTTPAddr != HTTPOff
}

// DBPath is the settings database inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "skyhands.db")
}
