package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/skyhands/internal/coords"
	"github.com/ayusman/skyhands/internal/geom"
)

// HandMarkerRadius is the radius of the dot drawn at the tracked hand.
const HandMarkerRadius = 12

// Canvas composes frames into a reusable BGR Mat of the screen size: the
// mirrored camera feed centred on a black background, then the entities,
// the hand marker and any notice.
type Canvas struct {
	capture geom.Size
	mat     gocv.Mat
	flipped gocv.Mat
}

// NewCanvas returns a canvas for a feed of the given capture size.
func NewCanvas(capture geom.Size) *Canvas {
	return &Canvas{
		capture: capture,
		mat:     gocv.NewMat(),
		flipped: gocv.NewMat(),
	}
}

// Compose draws f and returns the canvas. The returned Mat is owned by the
// canvas and is overwritten by the next call.
func (c *Canvas) Compose(f Frame) *gocv.Mat {
	w, h := int(f.Scene.Screen.Width), int(f.Scene.Screen.Height)
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	if c.mat.Empty() || c.mat.Cols() != w || c.mat.Rows() != h {
		c.mat.Close()
		c.mat = gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	}
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))

	if f.Feed != nil && !f.Feed.Empty() {
		c.drawFeed(f.Feed, f.Scene.Screen)
	}

	for _, e := range f.Scene.Entities {
		for _, d := range Shape(e) {
			c.drawDisc(d)
		}
	}

	if f.Scene.Hand.Known {
		marker := HandColor
		if f.Scene.Grabbing {
			marker = GrabColor
		}
		gocv.Circle(&c.mat, f.Scene.Hand.Position.Image(), HandMarkerRadius, marker, -1)
	}

	if f.Notice != "" {
		gocv.PutText(&c.mat, f.Notice, image.Pt(20, 40), gocv.FontHersheySimplex, 0.8, NoticeColor, 2)
	}

	return &c.mat
}

// drawFeed copies the horizontally flipped feed onto the canvas at the
// position coords.FeedOrigin gives, clipped to the canvas.
func (c *Canvas) drawFeed(feed *gocv.Mat, screen geom.Size) {
	src := *feed
	cw, ch := int(c.capture.Width), int(c.capture.Height)
	if src.Cols() != cw || src.Rows() != ch {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(src, &resized, image.Pt(cw, ch), 0, 0, gocv.InterpolationLinear)
		src = resized
	}

	gocv.Flip(src, &c.flipped, 1)

	origin := coords.FeedOrigin(c.capture, screen).Image()
	feedRect := image.Rect(0, 0, cw, ch).Add(origin)
	visible := feedRect.Intersect(image.Rect(0, 0, c.mat.Cols(), c.mat.Rows()))
	if visible.Empty() {
		return
	}

	from := c.flipped.Region(visible.Sub(origin))
	defer from.Close()
	to := c.mat.Region(visible)
	defer to.Close()
	from.CopyTo(&to)
}

func (c *Canvas) drawDisc(d Disc) {
	center := d.Center.Image()
	radius := int(d.Radius + 0.5)
	gocv.Circle(&c.mat, center, radius, d.Fill, -1)
	if d.StrokeWidth > 0 {
		gocv.Circle(&c.mat, center, radius, d.Stroke, d.StrokeWidth)
	}
}

// PixelAt returns the colour of the canvas at (x, y).
func (c *Canvas) PixelAt(x, y int) color.RGBA {
	v := c.mat.GetVecbAt(y, x)
	return color.RGBA{R: v[2], G: v[1], B: v[0], A: 255}
}

// Close releases the canvas memory.
func (c *Canvas) Close() error {
	c.flipped.Close()
	return c.mat.Close()
}

