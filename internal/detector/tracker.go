package detector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/skyhands/internal/logging"
)

// ErrTrackerRunning is returned by Start when the tracker is already running.
var ErrTrackerRunning = errors.New("tracker already running")

// DefaultMaxFailures is how many detections in a row may fail before the
// tracker gives up.
const DefaultMaxFailures = 30

// Classifier assigns a named gesture to a hand, or nil when none matches.
type Classifier interface {
	Classify(hand *Hand) *Gesture
}

// Gate decides whether a frame differs enough from the previous one to be
// worth running detection on.
type Gate interface {
	Changed(frame *gocv.Mat) bool
}

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	// Enabled turns hand tracking on. A disabled tracker never reports hands.
	Enabled bool
	// Detection is forwarded to the detector and applied to its results.
	Detection Config
	// MaxFailures consecutive detection errors stop the tracker; Err then
	// reports the last one. Zero means DefaultMaxFailures.
	MaxFailures int
}

// Tracker runs hand detection on its own goroutine and publishes the most
// recent completed result. Latest never blocks.
type Tracker struct {
	config     TrackerConfig
	detector   Detector
	classifier Classifier
	gate       Gate
	log        *zap.Logger

	latest atomic.Pointer[HandFrame]
	paused atomic.Bool
	force  atomic.Bool // detect the next frame even if the gate says static
	pubMu  sync.Mutex // orders publishing against pausing
	seq    uint64

	failures int // consecutive, owned by the detection goroutine
	err      atomic.Pointer[error]

	mu     sync.Mutex
	frames chan *gocv.Mat
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTracker creates a tracker around d. classifier and gate may be nil.
func NewTracker(config TrackerConfig, d Detector, classifier Classifier, gate Gate, log *zap.Logger) *Tracker {
	log = logging.OrNop(log)
	t := &Tracker{
		config:     config,
		detector:   d,
		classifier: classifier,
		gate:       gate,
		log:        log.Named("tracker"),
	}
	t.latest.Store(&HandFrame{})
	t.force.Store(true)
	return t
}

// Start opens the detector and launches the detection goroutine. Errors are
// start-up failures (missing model, service, permissions); the tracker is not
// running after one.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.config.Enabled {
		t.log.Info("hand tracking disabled")
		return nil
	}
	if t.done != nil {
		return ErrTrackerRunning
	}
	if t.detector == nil {
		return errors.New("no hand detector configured")
	}

	if o, ok := t.detector.(Opener); ok {
		if err := o.Open(); err != nil {
			return fmt.Errorf("open detector: %w", err)
		}
	}

	t.failures = 0
	t.err.Store(nil)

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.frames = make(chan *gocv.Mat, 1)
	t.done = make(chan struct{})

	go t.run(ctx, t.frames, t.done)

	t.log.Info("hand tracking started",
		zap.Int("max_hands", t.config.Detection.MaxHands),
		zap.Float64("min_confidence", t.config.Detection.MinConfidence),
	)
	return nil
}

// Stop halts detection and closes the detector. It is safe to call on a
// tracker that never started.
func (t *Tracker) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done != nil {
		t.cancel()
		<-t.done

		// Release frames still queued
		for len(t.frames) > 0 {
			m := <-t.frames
			m.Close()
		}

		t.cancel = nil
		t.done = nil
		t.frames = nil
		t.latest.Store(&HandFrame{})
		t.log.Info("hand tracking stopped")
	}

	if t.detector == nil {
		return nil
	}
	return t.detector.Close()
}

// Running reports whether the detection goroutine is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// SetPaused suspends or resumes detection. While paused Latest reports no
// hands.
func (t *Tracker) SetPaused(paused bool) {
	t.pubMu.Lock()
	defer t.pubMu.Unlock()

	t.paused.Store(paused)
	if paused {
		t.latest.Store(&HandFrame{})
	} else {
		t.force.Store(true)
	}
}

// Paused reports whether detection is suspended.
func (t *Tracker) Paused() bool {
	return t.paused.Load()
}

// Submit offers a captured frame for detection. The frame is cloned; the
// caller keeps ownership of frame. It returns false when the frame was
// dropped because detection is busy, paused or not running.
func (t *Tracker) Submit(frame *gocv.Mat) bool {
	if frame == nil || frame.Empty() || t.paused.Load() || t.Err() != nil {
		return false
	}

	t.mu.Lock()
	frames := t.frames
	t.mu.Unlock()
	if frames == nil || len(frames) == cap(frames) {
		return false
	}

	clone := frame.Clone()
	select {
	case frames <- &clone:
		return true
	default:
		clone.Close()
		return false
	}
}

// Err returns the error that stopped detection after too many failures in a
// row, or nil.
func (t *Tracker) Err() error {
	if err := t.err.Load(); err != nil {
		return *err
	}
	return nil
}

// Latest returns the most recently completed detection.
func (t *Tracker) Latest() HandFrame {
	return *t.latest.Load()
}

func (t *Tracker) run(ctx context.Context, frames <-chan *gocv.Mat, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-frames:
			ok := t.process(frame)
			frame.Close()
			if !ok {
				return
			}
		}
	}
}

// process runs detection on frame. It returns false once detection has
// failed too often to continue.
func (t *Tracker) process(frame *gocv.Mat) bool {
	force := t.force.Swap(false)
	if t.gate != nil && !t.gate.Changed(frame) && !force {
		return true
	}

	hands, err := t.detector.Detect(frame)
	if err != nil {
		t.failures++
		limit := t.config.MaxFailures
		if limit <= 0 {
			limit = DefaultMaxFailures
		}
		if t.failures < limit {
			t.log.Warn("hand detection failed", zap.Error(err), zap.Int("failures", t.failures))
			return true
		}
		err = fmt.Errorf("%d detections failed in a row: %w", t.failures, err)
		t.log.Error("hand tracking stopped", zap.Error(err))
		t.err.Store(&err)
		t.pubMu.Lock()
		t.latest.Store(&HandFrame{})
		t.pubMu.Unlock()
		return false
	}
	t.failures = 0

	hands = t.config.Detection.limit(hands)
	for i := range hands {
		hands[i] = hands[i].withCentroid()
		if t.classifier != nil {
			hands[i].Gesture = t.classifier.Classify(&hands[i])
		}
	}

	t.pubMu.Lock()
	defer t.pubMu.Unlock()
	if t.paused.Load() {
		return true
	}

	t.seq++
	t.latest.Store(&HandFrame{
		Hands: hands,
		Seq:   t.seq,
		At:    time.Now(),
	})
	return true
}
