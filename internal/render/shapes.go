// Package render draws the scene: shape definitions shared by every backend,
// a GoCV canvas and window, a tcell terminal renderer and an MJPEG buffer.
package render

import (
	"image/color"

	"github.com/ayusman/skyhands/internal/geom"
	"github.com/ayusman/skyhands/internal/scene"
)

// Disc is a filled circle with an optional outline.
type Disc struct {
	Center      geom.Point
	Radius      float64
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth int
}

// Shape colours.
var (
	SunFill     = color.RGBA{R: 255, G: 219, B: 21, A: 255}
	SunStroke   = color.RGBA{R: 255, G: 161, B: 22, A: 255}
	Cloud1Fill  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cloud2Fill  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	HandColor   = color.RGBA{R: 90, G: 200, B: 250, A: 255}
	GrabColor   = color.RGBA{R: 60, G: 220, B: 90, A: 255}
	Background  = color.RGBA{A: 255}
	NoticeColor = color.RGBA{R: 255, G: 80, B: 80, A: 255}
)

// SunStrokeWidth is the outline thickness of the sun.
const SunStrokeWidth = 10

// puff is one circle of a cloud: offset from the entity position and
// diameter as a fraction of the entity radius.
type puff struct {
	dx, dy float64
	size   float64
}

var cloud1Puffs = []puff{
	{0, 0, 1}, {-30, -30, 1}, {30, -10, 1}, {-50, 20, 1}, {10, 20, 1},
}

var cloud2Puffs = []puff{
	{0, 0, 1}, {-50, -50, 1}, {40, -20, 4.0 / 5}, {-30, 20, 1}, {40, 40, 2.0 / 3},
}

// Shape returns the discs that make up an entity, back to front.
// The sun is one disc whose diameter is twice the pickup radius; each cloud
// puff has a diameter of (a fraction of) the pickup radius.
func Shape(e scene.State) []Disc {
	switch e.Kind {
	case scene.Sun:
		return []Disc{{
			Center:      e.Position,
			Radius:      e.Radius,
			Fill:        SunFill,
			Stroke:      SunStroke,
			StrokeWidth: SunStrokeWidth,
		}}
	case scene.Cloud1:
		return puffs(e, cloud1Puffs, Cloud1Fill)
	case scene.Cloud2:
		return puffs(e, cloud2Puffs, Cloud2Fill)
	default:
		return nil
	}
}

func puffs(e scene.State, ps []puff, fill color.RGBA) []Disc {
	discs := make([]Disc, len(ps))
	for i, p := range ps {
		discs[i] = Disc{
			Center: e.Position.Add(geom.Pt(p.dx, p.dy)),
			Radius: e.Radius * p.size / 2,
			Fill:   fill,
		}
	}
	return discs
}

// Contains reports whether p lies inside the disc including its outline.
func (d Disc) Contains(p geom.Point) bool {
	return d.Center.Dist(p) <= d.Radius+float64(d.StrokeWidth)/2
}

// OnStroke reports whether p lies on the disc outline.
func (d Disc) OnStroke(p geom.Point) bool {
	if d.StrokeWidth <= 0 {
		return false
	}
	dist := d.Center.Dist(p)
	half := float64(d.StrokeWidth) / 2
	return dist >= d.Radius-half && dist <= d.Radius+half
}
