package geom

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	q := Pt(1, 1)

	assert.Equal(t, Pt(4, 5), p.Add(q))
	assert.Equal(t, Pt(2, 3), p.Sub(q))
	assert.InDelta(t, 5.0, p.Dist(Pt(0, 0)), 1e-12)
	assert.Equal(t, image.Pt(3, 5), Pt(2.6, 4.5).Image())
}

func TestSizeEmpty(t *testing.T) {
	assert.False(t, Sz(1000, 800).Empty())
	assert.True(t, Sz(0, 800).Empty())
	assert.True(t, Sz(1000, -1).Empty())
}

func TestHandPos(t *testing.T) {
	assert.False(t, Unknown.Known)

	h := KnownAt(Pt(10, 20))
	assert.True(t, h.Known)
	assert.Equal(t, 10.0, h.X)
}
