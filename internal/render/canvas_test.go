package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/skyhands/internal/geom"
	"github.com/ayusman/skyhands/internal/scene"
)

func TestCanvasCompose(t *testing.T) {
	capture := geom.Sz(120, 90)
	screen := geom.Sz(200, 150)

	c := NewCanvas(capture)
	defer c.Close()

	feed := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 90, 120, gocv.MatTypeCV8UC3)
	defer feed.Close()

	snap := scene.Snapshot{
		Screen:  screen,
		Capture: capture,
		Entities: []scene.State{
			{Kind: scene.Sun, Position: geom.Pt(170, 20), Radius: 10},
		},
	}
	out := c.Compose(Frame{Feed: &feed, Scene: snap})
	require.Equal(t, 200, out.Cols())
	require.Equal(t, 150, out.Rows())

	// Feed origin is (40, 30).
	assert.Equal(t, Background, c.PixelAt(5, 5))
	assert.Equal(t, uint8(255), c.PixelAt(100, 75).B, "feed is copied")
	assert.Equal(t, SunFill, c.PixelAt(170, 20))
}

func TestCanvasFeedLargerThanScreen(t *testing.T) {
	capture := geom.Sz(120, 90)
	c := NewCanvas(capture)
	defer c.Close()

	feed := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 255, 0, 0), 90, 120, gocv.MatTypeCV8UC3)
	defer feed.Close()

	out := c.Compose(Frame{Feed: &feed, Scene: scene.Snapshot{Screen: geom.Sz(60, 40)}})
	require.Equal(t, 60, out.Cols())
	assert.Equal(t, uint8(255), c.PixelAt(30, 20).G)
}

func TestCanvasWithoutFeed(t *testing.T) {
	c := NewCanvas(geom.Sz(120, 90))
	defer c.Close()

	snap := scene.Snapshot{
		Screen:   geom.Sz(100, 100),
		Hand:     scene.Hand{Known: true, Position: geom.Pt(50, 50)},
		Grabbing: true,
	}
	c.Compose(Frame{Scene: snap, Notice: "camera unavailable"})
	assert.Equal(t, GrabColor, c.PixelAt(50, 50))
}
