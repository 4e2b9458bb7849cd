package render

import (
	"os"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/skyhands/internal/geom"
	"github.com/ayusman/skyhands/internal/scene"
)

func TestWindowDrawFromManyGoroutines(t *testing.T) {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Skip("no display available")
	}

	capture := geom.Sz(120, 90)
	screen := geom.Sz(200, 150)
	w := NewWindow("skyhands test", screen, capture)
	assert.Equal(t, screen, w.Size())

	snap := scene.Snapshot{Screen: screen, Capture: capture}

	// Frames arrive from goroutines other than the one that opened the window.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				err := w.Draw(Frame{Scene: snap})
				if err != nil {
					assert.ErrorIs(t, err, ErrQuit)
				}
			}
		}()
	}
	wg.Wait()

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
