package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/ayusman/skyhands/internal/app"
	"github.com/ayusman/skyhands/internal/capture"
	"github.com/ayusman/skyhands/internal/config"
	"github.com/ayusman/skyhands/internal/detector"
	"github.com/ayusman/skyhands/internal/logging"
	"github.com/ayusman/skyhands/internal/render"
	"github.com/ayusman/skyhands/internal/scene"
	"github.com/ayusman/skyhands/internal/store"
	"github.com/ayusman/skyhands/internal/tray"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "skyhands: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer renderer.Close()

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.MaxHands,
		MinConfidence:   cfg.MinDetectionConfidence,
		MinTrackingConf: cfg.MinTrackingConfidence,
	}, log)
	var hands detector.Detector = det
	if err != nil {
		log.Warn("hand detector unavailable", zap.Error(err))
		hands = detector.Unavailable(err)
	}

	var menu *tray.Tray
	var onFrame func(scene.Snapshot)
	var onInteractive func(bool)
	if cfg.Tray {
		menu = tray.New(debugURL(cfg))
		onFrame = func(snap scene.Snapshot) {
			menu.SetStatus(snap.Grabbing, snap.Held())
		}
		onInteractive = menu.SetEnabled
	}

	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		log.Info("serving static files", zap.String("dir", webDir))
	}

	session, err := app.New(app.Options{
		Config:        cfg,
		Camera:        capture.NewCamera(cfg.CameraID, cfg.CaptureWidth, cfg.CaptureHeight),
		Detector:      hands,
		Renderer:      renderer,
		Store:         st,
		Logger:        log,
		StaticDir:     webDir,
		OnFrame:       onFrame,
		OnInteractive: onInteractive,
	})
	if err != nil {
		return err
	}
	log.Info("starting skyhands",
		zap.String("session", session.ID()),
		zap.String("renderer", cfg.Renderer),
		zap.String("http", cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if menu == nil {
		return session.Run(ctx)
	}

	// The tray needs the main goroutine, so the session runs beside it.
	menu.OnToggle(func(enabled bool) {
		session.SetInteractive(enabled)
		if err := st.Settings().Set(store.KeyInteractive, strconv.FormatBool(enabled)); err != nil {
			log.Warn("failed to save setting", zap.Error(err))
		}
	})
	menu.OnDebug(func() {
		if err := openBrowser(debugURL(cfg)); err != nil {
			log.Warn("failed to open browser", zap.Error(err))
		}
	})
	menu.OnQuit(stop)

	done := make(chan error, 1)
	go func() {
		done <- session.Run(ctx)
		menu.Quit()
	}()
	menu.Run()
	stop()
	return <-done
}

func newRenderer(cfg config.Config) (render.Renderer, error) {
	if cfg.Renderer == config.RendererTerminal {
		return render.NewTerminal()
	}
	return render.NewWindow("Skyhands", cfg.Window(), cfg.Capture()), nil
}

func debugURL(cfg config.Config) string {
	if !cfg.HTTPEnabled() {
		return ""
	}
	return "http://" + cfg.HTTPAddr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir returns the first existing directory of "web", "../web",
// "../../web" and <dataDir>/web, or "" when there is none.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
