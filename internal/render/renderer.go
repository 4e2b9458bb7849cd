package render

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/ayusman/skyhands/internal/geom"
	"github.com/ayusman/skyhands/internal/scene"
)

// ErrQuit is returned by Draw when the user asked to close the renderer.
var ErrQuit = errors.New("renderer closed by user")

// Frame is everything a renderer needs for one frame.
type Frame struct {
	// Feed is the camera image in capture space; nil when the camera is
	// unavailable.
	Feed *gocv.Mat
	// Scene is the state after this frame's tick.
	Scene scene.Snapshot
	// Notice is a diagnostic shown on top of the scene, e.g. a tracking
	// start-up failure. Empty when there is nothing to report.
	Notice string
}

// Renderer draws frames onto a surface. Size is read by the scene every
// frame.
type Renderer interface {
	Size() geom.Size
	Draw(f Frame) error
	Close() error
}
