package render

import (
	"runtime"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/skyhands/internal/geom"
)

// Keys that close the window.
const (
	keyEsc = 27
	keyQ   = 'q'
)

// Window shows composed frames in a HighGUI window. HighGUI is only touched
// from one goroutine locked to its OS thread, so Draw may be called from any
// goroutine.
type Window struct {
	canvas *Canvas
	size   geom.Size

	drawMu sync.Mutex
	images chan *gocv.Mat
	keys   chan int
	done   chan struct{}

	once     sync.Once
	closeErr error
}

// NewWindow opens a window of the given screen size.
func NewWindow(title string, size, capture geom.Size) *Window {
	w := &Window{
		canvas: NewCanvas(capture),
		size:   size,
		images: make(chan *gocv.Mat),
		keys:   make(chan int),
		done:   make(chan struct{}),
	}
	ready := make(chan struct{})
	go w.run(title, ready)
	<-ready
	return w
}

func (w *Window) run(title string, ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	win := gocv.NewWindow(title)
	win.ResizeWindow(int(w.size.Width), int(w.size.Height))
	close(ready)

	for img := range w.images {
		win.IMShow(*img)
		w.keys <- win.WaitKey(1)
	}
	w.closeErr = win.Close()
}

// Size returns the canvas size.
func (w *Window) Size() geom.Size {
	return w.size
}

// Draw composes f, shows it and pumps window events. It returns ErrQuit when
// q or Esc was pressed.
func (w *Window) Draw(f Frame) error {
	w.drawMu.Lock()
	defer w.drawMu.Unlock()

	w.images <- w.canvas.Compose(f)

	switch <-w.keys {
	case keyEsc, keyQ:
		return ErrQuit
	}
	return nil
}

// Close closes the window. Draw must not be called afterwards.
func (w *Window) Close() error {
	w.once.Do(func() {
		close(w.images)
		<-w.done
		w.canvas.Close()
	})
	return w.closeErr
}
