package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/skyhands/internal/render"
)

// streamPoll is how often the handler checks for a new frame.
const streamPoll = 33 * time.Millisecond

// StreamHandler serves the rendered canvas as MJPEG.
type StreamHandler struct {
	stream *render.Stream
}

// NewStreamHandler creates a new StreamHandler for stream.
func NewStreamHandler(stream *render.Stream) *StreamHandler {
	return &StreamHandler{stream: stream}
}

// ServeHTTP writes every new frame until the client disconnects. While the
// client is attached the session keeps encoding frames.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	detach := h.stream.Attach()
	defer detach()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamPoll)
	defer ticker.Stop()

	var last uint64
	for {
		if jpeg, seq := h.stream.Latest(); seq != last && len(jpeg) > 0 {
			last = seq
			if err := writePart(w, jpeg); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
