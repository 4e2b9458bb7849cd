package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu      sync.Mutex
	hands   []Hand
	err     error
	openErr error
	calls   int
	closed  bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetOpenError sets the error that will be returned by Open.
func (m *MockDetector) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// Open returns the configured start-up error, if any.
func (m *MockDetector) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openErr
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	hands := make([]Hand, len(m.hands))
	copy(hands, m.hands)
	return hands, nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GrabLandmarks returns a preset Hand representing a closed fist:
// thumb half curled across the palm, the other four fingers folded back.
func GrabLandmarks() Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.95,
		Landmarks:  make([]Point3D, NumLandmarks),
	}
	p := hand.Landmarks

	p[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb bends roughly a right angle at the MCP joint
	p[ThumbCMC] = Point3D{X: 0.60, Y: 0.78, Z: 0.0}
	p[ThumbMCP] = Point3D{X: 0.64, Y: 0.72, Z: 0.0}
	p[ThumbIP] = Point3D{X: 0.62, Y: 0.68, Z: 0.0}
	p[ThumbTip] = Point3D{X: 0.58, Y: 0.66, Z: 0.0}

	// Fingers fold at the PIP joint so the tip comes back towards the MCP
	for i, x := range []float64{0.55, 0.50, 0.45, 0.40} {
		mcp := IndexMCP + 4*i
		p[mcp] = Point3D{X: x, Y: 0.66, Z: 0.0}
		p[mcp+1] = Point3D{X: x, Y: 0.60, Z: -0.02}
		p[mcp+2] = Point3D{X: x, Y: 0.62, Z: -0.05}
		p[mcp+3] = Point3D{X: x, Y: 0.66, Z: -0.05}
	}

	return hand
}

// OpenPalmLandmarks returns a preset Hand representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.95,
		Landmarks:  make([]Point3D, NumLandmarks),
	}
	p := hand.Landmarks

	p[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	p[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	p[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	p[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	p[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	p[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	p[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	p[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	p[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	p[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	p[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	p[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	p[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	p[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	p[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	p[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	p[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	p[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	p[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	p[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	p[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return hand
}
