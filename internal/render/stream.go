package render

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// DefaultJPEGQuality is the encoder quality of published frames.
const DefaultJPEGQuality = 75

// Stream holds the latest composed frame as JPEG for MJPEG viewers.
// Frames are only worth encoding while someone is attached.
type Stream struct {
	quality int
	viewers atomic.Int32

	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// NewStream returns an empty stream. Non-positive quality uses
// DefaultJPEGQuality.
func NewStream(quality int) *Stream {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Stream{quality: quality}
}

// Attach registers a viewer and returns the function that removes it.
func (s *Stream) Attach() (detach func()) {
	s.viewers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { s.viewers.Add(-1) })
	}
}

// Watched reports whether any viewer is attached.
func (s *Stream) Watched() bool {
	return s.viewers.Load() > 0
}

// Publish encodes m and makes it the latest frame.
func (s *Stream) Publish(m *gocv.Mat) error {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *m, []int{gocv.IMWriteJpegQuality, s.quality})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := bytes.Clone(buf.GetBytes())

	s.mu.Lock()
	s.jpeg = data
	s.seq++
	s.mu.Unlock()
	return nil
}

// Latest returns the most recent JPEG and its sequence number. seq is 0
// before the first publish.
func (s *Stream) Latest() (jpeg []byte, seq uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jpeg, s.seq
}
