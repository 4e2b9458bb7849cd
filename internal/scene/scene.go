package scene

import (
	"go.uber.org/zap"

	"github.com/ayusman/skyhands/internal/coords"
	"github.com/ayusman/skyhands/internal/detector"
	"github.com/ayusman/skyhands/internal/geom"
	"github.com/ayusman/skyhands/internal/gesture"
	"github.com/ayusman/skyhands/internal/logging"
)

// HandSource supplies the most recent hand tracking result without blocking.
type HandSource interface {
	Latest() detector.HandFrame
}

// Surface reports the current drawable size. It is read every frame so
// window resizes take effect immediately.
type Surface interface {
	Size() geom.Size
}

// NoHands is a HandSource that never reports a hand. The scene falls back to
// it when tracking could not be started.
type NoHands struct{}

func (NoHands) Latest() detector.HandFrame { return detector.HandFrame{} }

// FixedSurface is a Surface of constant size.
type FixedSurface geom.Size

func (s FixedSurface) Size() geom.Size { return geom.Size(s) }

// Config holds the scene parameters.
type Config struct {
	// Capture is the camera frame size that landmarks are scaled to.
	Capture geom.Size
	// Padding is the off-screen wrap margin.
	Padding float64
	// Gesture is the gesture name that grabs entities.
	Gesture string
}

// DefaultConfig returns the configuration of the toy: 1200x900 capture,
// padding 100, "grab".
func DefaultConfig() Config {
	return Config{
		Capture: geom.Sz(1200, 900),
		Padding: DefaultPadding,
		Gesture: gesture.GrabGesture,
	}
}

// Scene owns the entities and the hand position carried between frames.
// It is driven from a single goroutine; Tick is not safe for concurrent use.
type Scene struct {
	config   Config
	hands    HandSource
	surface  Surface
	entities []*Entity
	log      *zap.Logger

	prev     geom.HandPos
	cur      geom.HandPos
	grabbing bool
	screen   geom.Size
	frame    uint64
}

// New creates a scene. A nil hands source behaves like NoHands.
func New(config Config, hands HandSource, surface Surface, log *zap.Logger, entities ...*Entity) *Scene {
	if hands == nil {
		hands = NoHands{}
	}
	log = logging.OrNop(log)
	if config.Gesture == "" {
		config.Gesture = gesture.GrabGesture
	}
	return &Scene{
		config:   config,
		hands:    hands,
		surface:  surface,
		entities: entities,
		log:      log.Named("scene"),
		screen:   surface.Size(),
	}
}

// SetHandSource swaps the hand source, e.g. after tracking failed to start.
// A nil source disables hand interaction.
func (s *Scene) SetHandSource(hands HandSource) {
	if hands == nil {
		hands = NoHands{}
	}
	s.hands = hands
}

// SetPadding changes the wrap margin from the next frame on.
func (s *Scene) SetPadding(padding float64) {
	s.config.Padding = padding
}

// Padding returns the wrap margin.
func (s *Scene) Padding() float64 {
	return s.config.Padding
}

// Entities returns the entities in update order.
func (s *Scene) Entities() []*Entity {
	return s.entities
}

// Tick advances the scene by one frame: it polls the hand source, maps the
// hand centroid to screen space, evaluates the grab gesture and updates every
// entity in construction order.
func (s *Scene) Tick() {
	frame := s.hands.Latest()
	s.screen = s.surface.Size()

	s.cur = coords.HandPosition(frame, s.config.Capture, s.screen)
	grabbing := gesture.IsGrabbing(frame, s.config.Gesture)
	if grabbing != s.grabbing {
		s.log.Debug("grab state changed",
			zap.Bool("grabbing", grabbing),
			zap.Uint64("frame", s.frame),
		)
	}
	s.grabbing = grabbing

	for _, e := range s.entities {
		e.Update(s.prev, s.cur, grabbing, s.screen, s.config.Padding)
	}

	s.prev = s.cur
	s.frame++
}

// Hand is the hand position in a Snapshot.
type Hand struct {
	Known    bool       `json:"known"`
	Position geom.Point `json:"position"`
}

// Snapshot is an immutable copy of the scene after a tick.
type Snapshot struct {
	Frame    uint64    `json:"frame"`
	Screen   geom.Size `json:"screen"`
	Capture  geom.Size `json:"capture"`
	Hand     Hand      `json:"hand"`
	Grabbing bool      `json:"grabbing"`
	Entities []State   `json:"entities"`
}

// Held returns the number of entities held in the snapshot's frame.
func (s Snapshot) Held() int {
	n := 0
	for _, e := range s.Entities {
		if e.Regime == Held {
			n++
		}
	}
	return n
}

// Snapshot captures the current state.
func (s *Scene) Snapshot() Snapshot {
	states := make([]State, len(s.entities))
	for i, e := range s.entities {
		states[i] = e.State()
	}
	return Snapshot{
		Frame:    s.frame,
		Screen:   s.screen,
		Capture:  s.config.Capture,
		Hand:     Hand{Known: s.cur.Known, Position: s.cur.Point},
		Grabbing: s.grabbing,
		Entities: states,
	}
}
