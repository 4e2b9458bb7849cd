package scene

import (
	"github.com/ayusman/skyhands/internal/coords"
	"github.com/ayusman/skyhands/internal/geom"
)

// Drift speeds (px per frame) and shape sizes of the default cast. Sizes are
// diameters; the pickup radius is half the size.
const (
	SunSpeed    = 0.4
	SunSize     = 300.0
	Cloud1Speed = -0.3
	Cloud1Size  = 300.0
	Cloud2Speed = 0.2
	Cloud2Size  = 400.0
)

// DefaultCast returns the sun and the two clouds. Their starting points are
// given as fractions of the capture frame and mapped to screen space the
// same way hand positions are, using the screen size at start-up.
func DefaultCast(capture, screen geom.Size) []*Entity {
	at := func(fx, fy float64) geom.Point {
		return coords.MapToScreen(geom.Pt(fx*capture.Width, fy*capture.Height), capture, screen)
	}

	return []*Entity{
		NewEntity(Sun, at(5.0/6, 1.0/4), SunSpeed, SunSize/2),
		NewEntity(Cloud1, at(1.0/6, 1.0/3), Cloud1Speed, Cloud1Size/2),
		NewEntity(Cloud2, at(1.0/3, 5.0/6), Cloud2Speed, Cloud2Size/2),
	}
}
