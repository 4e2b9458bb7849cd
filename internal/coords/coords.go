// Package coords converts tracked positions from capture space to screen space.
//
// The camera feed is drawn mirrored and centred on the screen, so a point in
// capture space is flipped horizontally and shifted by the centring offsets.
package coords

import (
	"github.com/ayusman/skyhands/internal/detector"
	"github.com/ayusman/skyhands/internal/geom"
)

// MapToScreen converts a capture-space pixel to screen space:
//
//	x' = -x + screen.Width/2 + capture.Width/2
//	y' =  y + screen.Height/2 - capture.Height/2
func MapToScreen(p geom.Point, capture, screen geom.Size) geom.Point {
	return geom.Point{
		X: -p.X + screen.Width/2 + capture.Width/2,
		Y: p.Y + screen.Height/2 - capture.Height/2,
	}
}

// FeedOrigin is the screen position of the top-left corner of the mirrored
// feed. A capture pixel at (x, y) is drawn at (origin.X + capture.Width - x,
// origin.Y + y), matching MapToScreen.
func FeedOrigin(capture, screen geom.Size) geom.Point {
	return geom.Point{
		X: screen.Width/2 - capture.Width/2,
		Y: screen.Height/2 - capture.Height/2,
	}
}

// ToCapture scales a normalised landmark into capture pixels.
func ToCapture(p detector.Point3D, capture geom.Size) geom.Point {
	return geom.Point{X: p.X * capture.Width, Y: p.Y * capture.Height}
}

// HandPosition returns the screen position of the frame's hand centroid, or
// geom.Unknown when the frame has no landmark data.
func HandPosition(frame detector.HandFrame, capture, screen geom.Size) geom.HandPos {
	c, ok := frame.Centroid()
	if !ok {
		return geom.Unknown
	}
	return geom.KnownAt(MapToScreen(ToCapture(c, capture), capture, screen))
}
