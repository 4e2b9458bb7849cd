package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/skyhands/internal/detector"
	"github.com/ayusman/skyhands/internal/geom"
)

var (
	capture = geom.Sz(1200, 900)
	screen  = geom.Sz(1000, 800)
)

func TestMapToScreen(t *testing.T) {
	tests := []struct {
		name string
		in   geom.Point
		want geom.Point
	}{
		{name: "capture origin", in: geom.Pt(0, 0), want: geom.Pt(1100, -50)},
		{name: "capture centre lands on screen centre", in: geom.Pt(600, 450), want: geom.Pt(500, 400)},
		{name: "right edge maps left", in: geom.Pt(1200, 900), want: geom.Pt(-100, 850)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapToScreen(tt.in, capture, screen))
		})
	}
}

func TestMapToScreen_Mirror(t *testing.T) {
	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(13.5, 700), geom.Pt(-250, 42), geom.Pt(1199, 899)} {
		a := MapToScreen(p, capture, screen)
		b := MapToScreen(geom.Pt(-p.X, p.Y), capture, screen)

		assert.InDelta(t, -b.X+screen.Width+capture.Width, a.X, 1e-9, "mirror identity for %v", p)
		assert.Equal(t, a.Y, b.Y, "y must not depend on mirroring for %v", p)
	}
}

func TestFeedOrigin(t *testing.T) {
	origin := FeedOrigin(capture, screen)
	assert.Equal(t, geom.Pt(-100, -50), origin)

	// A pixel drawn at origin + (capture.Width - x, y) is where MapToScreen puts it.
	p := geom.Pt(300, 200)
	drawn := geom.Pt(origin.X+capture.Width-p.X, origin.Y+p.Y)
	assert.Equal(t, MapToScreen(p, capture, screen), drawn)
}

func TestHandPosition(t *testing.T) {
	t.Run("no hands is unknown", func(t *testing.T) {
		assert.Equal(t, geom.Unknown, HandPosition(detector.HandFrame{}, capture, screen))
	})

	t.Run("hand without landmarks is unknown", func(t *testing.T) {
		frame := detector.HandFrame{Hands: []detector.Hand{{Score: 1}}}
		assert.False(t, HandPosition(frame, capture, screen).Known)
	})

	t.Run("centroid is scaled and mirrored", func(t *testing.T) {
		hand := detector.Hand{Landmarks: make([]detector.Point3D, detector.Centroid+1)}
		hand.Landmarks[detector.Centroid] = detector.Point3D{X: 0.5, Y: 0.5}

		got := HandPosition(detector.HandFrame{Hands: []detector.Hand{hand}}, capture, screen)
		assert.True(t, got.Known)
		assert.Equal(t, geom.Pt(500, 400), got.Point)
	})
}
