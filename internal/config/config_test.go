package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/skyhands/internal/geom"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"SKYHANDS_DATA_DIR": "/tmp/sky"})
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.CameraID)
	assert.Equal(t, geom.Sz(1200, 900), cfg.Capture())
	assert.Equal(t, geom.Sz(1280, 960), cfg.Window())
	assert.Equal(t, 100.0, cfg.Padding)
	assert.Equal(t, 1, cfg.MaxHands)
	assert.Equal(t, 0.7, cfg.MinDetectionConfidence)
	assert.Equal(t, 5.0, cfg.GestureConfidence)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, RendererWindow, cfg.Renderer)
	assert.True(t, cfg.TrackingEnabled)
	assert.True(t, cfg.HTTPEnabled())
	assert.Equal(t, time.Second/30, cfg.FrameInterval())
	assert.Equal(t, "/tmp/sky/skyhands.db", cfg.DBPath())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SKYHANDS_DATA_DIR":  "/tmp/sky",
		"SKYHANDS_CAMERA_ID": "2",
		"SKYHANDS_PADDING":   "40",
		"SKYHANDS_RENDERER":  "terminal",
		"SKYHANDS_HTTP_ADDR": "off",
		"SKYHANDS_TRACKING":  "false",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.CameraID)
	assert.Equal(t, 40.0, cfg.Padding)
	assert.Equal(t, RendererTerminal, cfg.Renderer)
	assert.False(t, cfg.TrackingEnabled)
	assert.False(t, cfg.HTTPEnabled())
}

func TestLoadDataDirDefault(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "/home/someone/.skyhands", cfg.DataDir)
}

func TestLoadParseError(t *testing.T) {
	_, err := LoadFrom(map[string]string{"SKYHANDS_FPS": "fast"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := LoadFrom(map[string]string{"SKYHANDS_DATA_DIR": "/tmp/sky"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative camera", func(c *Config) { c.CameraID = -1 }},
		{"zero capture", func(c *Config) { c.CaptureWidth = 0 }},
		{"zero window", func(c *Config) { c.WindowHeight = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative padding", func(c *Config) { c.Padding = -1 }},
		{"three hands", func(c *Config) { c.MaxHands = 3 }},
		{"detection above one", func(c *Config) { c.MinDetectionConfidence = 1.5 }},
		{"tracking below zero", func(c *Config) { c.MinTrackingConfidence = -0.1 }},
		{"gesture above ten", func(c *Config) { c.GestureConfidence = 11 }},
		{"unknown renderer", func(c *Config) { c.Renderer = "opengl" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
