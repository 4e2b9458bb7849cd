package render

import (
	"image/color"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/skyhands/internal/geom"
)

// A terminal cell stands for a block of screen-space pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Terminal draws the scene as coloured cells on a tcell screen. The camera
// feed is not shown.
type Terminal struct {
	screen tcell.Screen
	quit   atomic.Bool
	done   chan struct{}
	once   sync.Once
}

// NewTerminal initialises the real terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalScreen(screen)
}

// NewTerminalScreen wraps an uninitialised screen, e.g. a simulation screen
// in tests.
func NewTerminalScreen(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	t := &Terminal{screen: screen, done: make(chan struct{})}
	go t.pollEvents()
	return t, nil
}

func (t *Terminal) pollEvents() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		t.handle(ev)
	}
}

func (t *Terminal) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			t.quit.Store(true)
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

// Size returns the terminal size in screen-space pixels.
func (t *Terminal) Size() geom.Size {
	cols, rows := t.screen.Size()
	return geom.Sz(float64(cols*CellWidth), float64(rows*CellHeight))
}

// Draw paints every cell with the colour of the topmost shape under its
// centre, marks the hand and writes the notice and a status line.
func (t *Terminal) Draw(f Frame) error {
	if t.quit.Load() {
		return ErrQuit
	}

	var discs []Disc
	for _, e := range f.Scene.Entities {
		discs = append(discs, Shape(e)...)
	}

	cols, rows := t.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c, ok := CellColor(discs, CellCenter(x, y))
			style := tcell.StyleDefault.Background(tcell.ColorBlack)
			if ok {
				style = style.Background(rgb(c))
			}
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}

	if f.Scene.Hand.Known {
		x, y := CellAt(f.Scene.Hand.Position)
		if x >= 0 && x < cols && y >= 0 && y < rows {
			marker := HandColor
			r := 'o'
			if f.Scene.Grabbing {
				marker, r = GrabColor, '@'
			}
			t.screen.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(rgb(marker)).Bold(true))
		}
	}

	status := " skyhands  q: quit "
	if f.Scene.Grabbing {
		status += " grabbing "
	}
	t.text(0, rows-1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true))
	if f.Notice != "" {
		t.text(0, 0, f.Notice, tcell.StyleDefault.Foreground(rgb(NoticeColor)).Background(tcell.ColorBlack))
	}

	t.screen.Show()
	return nil
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	cols, _ := t.screen.Size()
	for _, r := range s {
		if x >= cols {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.once.Do(func() {
		t.screen.Fini()
		<-t.done
	})
	return nil
}

// CellCenter returns the screen-space point at the middle of cell (x, y).
func CellCenter(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

// CellAt returns the cell containing screen-space point p.
func CellAt(p geom.Point) (x, y int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// CellColor returns the colour of the last disc covering p, or false when p
// is background.
func CellColor(discs []Disc, p geom.Point) (color.RGBA, bool) {
	for i := len(discs) - 1; i >= 0; i-- {
		d := discs[i]
		if !d.Contains(p) {
			continue
		}
		if d.OnStroke(p) {
			return d.Stroke, true
		}
		return d.Fill, true
	}
	return color.RGBA{}, false
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
