package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestStreamPublish(t *testing.T) {
	s := NewStream(0)
	_, seq := s.Latest()
	assert.Zero(t, seq)

	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 32, 32, gocv.MatTypeCV8UC3)
	defer m.Close()

	require.NoError(t, s.Publish(&m))
	jpeg, seq := s.Latest()
	assert.Equal(t, uint64(1), seq)
	require.Greater(t, len(jpeg), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, jpeg[:2])
}

func TestStreamViewers(t *testing.T) {
	s := NewStream(90)
	assert.False(t, s.Watched())

	detach := s.Attach()
	assert.True(t, s.Watched())
	detach()
	detach()
	assert.False(t, s.Watched())
}
