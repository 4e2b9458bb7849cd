package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Frame differencing parameters.
const (
	// BlurSize is the Gaussian kernel used to suppress sensor noise.
	BlurSize = 21
	// PixelDelta is the grey-level change that counts a pixel as moved.
	PixelDelta = 25
	// DefaultMotionPercent is the share of moved pixels that makes a frame
	// "changed".
	DefaultMotionPercent = 0.5
)

// MotionGate compares each frame with the previous one and reports whether
// enough of the picture changed to be worth running hand detection again.
type MotionGate struct {
	percent float64
	prev    gocv.Mat
	primed  bool
	mu      sync.Mutex
}

// NewMotionGate returns a gate that opens when more than percent of the
// pixels changed. Non-positive values use DefaultMotionPercent.
func NewMotionGate(percent float64) *MotionGate {
	if percent <= 0 {
		percent = DefaultMotionPercent
	}
	return &MotionGate{
		percent: percent,
		prev:    gocv.NewMat(),
	}
}

// Changed reports whether frame differs from the previously seen frame.
// The first frame, and any frame whose size differs from the previous one,
// counts as changed.
func (g *MotionGate) Changed(frame *gocv.Mat) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Pt(BlurSize, BlurSize), 0, 0, gocv.BorderDefault)

	if !g.primed || blurred.Rows() != g.prev.Rows() || blurred.Cols() != g.prev.Cols() {
		g.swap(blurred)
		return true
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prev, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, PixelDelta, 255, gocv.ThresholdBinary)

	moved := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100
	g.swap(blurred)

	return moved > g.percent
}

// swap makes next the reference frame, taking ownership of it.
func (g *MotionGate) swap(next gocv.Mat) {
	g.prev.Close()
	g.prev = next
	g.primed = true
}

// Reset forgets the reference frame.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prev.Close()
	g.prev = gocv.NewMat()
	g.primed = false
}

// Close releases the reference frame.
func (g *MotionGate) Close() {
	g.Reset()
}
