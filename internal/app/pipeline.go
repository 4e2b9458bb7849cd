package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/skyhands/internal/render"
	"github.com/ayusman/skyhands/internal/scene"
)

// Run starts tracking and runs the frame loop and debug server until ctx is
// cancelled or the user closes the renderer. Start-up failures of the camera
// or tracker are not fatal: they are shown on the canvas and the entities
// keep drifting.
func (s *Session) Run(ctx context.Context) error {
	s.start(ctx)
	defer s.teardown()

	g, ctx := errgroup.WithContext(ctx)
	if s.server != nil {
		g.Go(func() error {
			if err := s.server.Serve(ctx, s.cfg.HTTPAddr); err != nil {
				s.log.Error("debug server unavailable", zap.Error(err))
				s.addNotice("Debug server unavailable: " + err.Error())
			}
			return nil
		})
	}
	g.Go(func() error {
		return s.loop(ctx)
	})

	err := g.Wait()
	if errors.Is(err, render.ErrQuit) {
		s.log.Info("closed by user")
		return nil
	}
	return err
}

// start opens the camera and starts the tracker.
func (s *Session) start(ctx context.Context) {
	if err := s.camera.Open(); err != nil {
		s.log.Error("camera unavailable", zap.Error(err))
		s.addNotice("Camera unavailable: " + err.Error())
		s.scene.SetHandSource(scene.NoHands{})
		return
	}
	s.cameraOK = true

	if err := s.tracker.Start(ctx); err != nil {
		s.log.Error("hand tracking unavailable", zap.Error(err))
		s.addNotice("Hand tracking unavailable: " + err.Error())
		s.scene.SetHandSource(scene.NoHands{})
		return
	}
	s.tracker.SetPaused(!s.Interactive())
}

func (s *Session) teardown() {
	if err := s.tracker.Stop(); err != nil {
		s.log.Warn("failed to stop tracker", zap.Error(err))
	}
	if s.cameraOK {
		if err := s.camera.Close(); err != nil {
			s.log.Warn("failed to close camera", zap.Error(err))
		}
		s.cameraOK = false
	}
	s.gate.Close()
	s.canvas.Close()
	s.log.Info("session stopped")
}

// loop runs one step per frame interval.
func (s *Session) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FrameInterval())
	defer ticker.Stop()

	s.log.Info("frame loop started",
		zap.Int("fps", s.cfg.FPS),
		zap.Bool("camera", s.cameraOK),
		zap.Bool("tracking", s.tracker.Running()),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.step(); err != nil {
				return err
			}
		}
	}
}

// step reads a frame, hands it to the tracker, advances the scene and draws.
// It only fails with render.ErrQuit.
func (s *Session) step() error {
	var feed *gocv.Mat
	if s.cameraOK {
		frame, err := s.camera.ReadFrame()
		if err != nil {
			s.log.Debug("failed to read frame", zap.Error(err))
		} else {
			feed = frame
			defer feed.Close()
		}
	}

	if feed != nil {
		s.tracker.Submit(feed)
	}

	if !s.trackingLost {
		if err := s.tracker.Err(); err != nil {
			s.trackingLost = true
			s.addNotice("Hand tracking stopped: " + err.Error())
			s.scene.SetHandSource(scene.NoHands{})
		}
	}

	s.scene.SetPadding(s.currentPadding())
	s.scene.Tick()

	snap := s.scene.Snapshot()
	s.snap.Store(&snap)
	if s.onFrame != nil {
		s.onFrame(snap)
	}

	frame := render.Frame{Feed: feed, Scene: snap, Notice: s.Notice()}
	if err := s.renderer.Draw(frame); err != nil {
		if errors.Is(err, render.ErrQuit) {
			return err
		}
		s.log.Warn("draw failed", zap.Error(err))
	}

	if s.stream.Watched() {
		if err := s.stream.Publish(s.canvas.Compose(frame)); err != nil {
			s.log.Warn("failed to publish frame", zap.Error(err))
		}
	}
	return nil
}
