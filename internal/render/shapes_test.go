package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/skyhands/internal/geom"
	"github.com/ayusman/skyhands/internal/scene"
)

func TestShapeSun(t *testing.T) {
	discs := Shape(scene.State{Kind: scene.Sun, Position: geom.Pt(100, 200), Radius: 150})
	require.Len(t, discs, 1)
	assert.Equal(t, geom.Pt(100, 200), discs[0].Center)
	assert.Equal(t, 150.0, discs[0].Radius)
	assert.Equal(t, SunFill, discs[0].Fill)
	assert.Equal(t, SunStrokeWidth, discs[0].StrokeWidth)
}

func TestShapeClouds(t *testing.T) {
	c1 := Shape(scene.State{Kind: scene.Cloud1, Position: geom.Pt(0, 0), Radius: 150})
	require.Len(t, c1, 5)
	for _, d := range c1 {
		assert.Equal(t, 75.0, d.Radius)
		assert.Equal(t, Cloud1Fill, d.Fill)
		assert.Zero(t, d.StrokeWidth)
	}
	assert.Equal(t, geom.Pt(-30, -30), c1[1].Center)

	c2 := Shape(scene.State{Kind: scene.Cloud2, Position: geom.Pt(10, 10), Radius: 200})
	require.Len(t, c2, 5)
	assert.InDelta(t, 80.0, c2[2].Radius, 1e-9)
	assert.InDelta(t, 200.0/3, c2[4].Radius, 1e-9)
	assert.Equal(t, geom.Pt(50, 50), c2[4].Center)
}

func TestShapeUnknownKind(t *testing.T) {
	assert.Nil(t, Shape(scene.State{Kind: scene.Kind(99)}))
}

func TestDiscStroke(t *testing.T) {
	d := Disc{Center: geom.Pt(0, 0), Radius: 100, StrokeWidth: 10}
	assert.True(t, d.Contains(geom.Pt(104, 0)))
	assert.False(t, d.Contains(geom.Pt(106, 0)))
	assert.True(t, d.OnStroke(geom.Pt(0, 97)))
	assert.False(t, d.OnStroke(geom.Pt(0, 50)))

	plain := Disc{Center: geom.Pt(0, 0), Radius: 10}
	assert.False(t, plain.OnStroke(geom.Pt(10, 0)))
}
