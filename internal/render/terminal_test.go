package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/skyhands/internal/geom"
	"github.com/ayusman/skyhands/internal/scene"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTerminalScreen(screen)
	require.NoError(t, err)
	screen.SetSize(80, 24)
	t.Cleanup(func() { term.Close() })
	return term, screen
}

func TestTerminalSize(t *testing.T) {
	term, _ := newSimTerminal(t)
	assert.Equal(t, geom.Sz(80*CellWidth, 24*CellHeight), term.Size())
}

func TestTerminalDraw(t *testing.T) {
	term, _ := newSimTerminal(t)

	snap := scene.Snapshot{
		Screen: term.Size(),
		Hand:   scene.Hand{Known: true, Position: geom.Pt(-40, 10)},
		Entities: []scene.State{
			{Kind: scene.Sun, Position: geom.Pt(320, 192), Radius: 150},
			{Kind: scene.Cloud2, Position: geom.Pt(900, 500), Radius: 200},
		},
	}
	assert.NoError(t, term.Draw(Frame{Scene: snap, Notice: "tracking unavailable"}))
}

func TestTerminalQuit(t *testing.T) {
	term, _ := newSimTerminal(t)
	term.quit.Store(true)
	assert.ErrorIs(t, term.Draw(Frame{}), ErrQuit)
}

func TestCellColor(t *testing.T) {
	discs := []Disc{
		{Center: geom.Pt(0, 0), Radius: 100, Fill: SunFill, Stroke: SunStroke, StrokeWidth: 10},
		{Center: geom.Pt(50, 0), Radius: 20, Fill: Cloud1Fill},
	}

	c, ok := CellColor(discs, geom.Pt(50, 0))
	require.True(t, ok)
	assert.Equal(t, Cloud1Fill, c, "later discs are on top")

	c, ok = CellColor(discs, geom.Pt(-50, 0))
	require.True(t, ok)
	assert.Equal(t, SunFill, c)

	c, ok = CellColor(discs, geom.Pt(0, -100))
	require.True(t, ok)
	assert.Equal(t, SunStroke, c)

	_, ok = CellColor(discs, geom.Pt(300, 300))
	assert.False(t, ok)
}

func TestCellMapping(t *testing.T) {
	assert.Equal(t, geom.Pt(4, 8), CellCenter(0, 0))
	x, y := CellAt(CellCenter(7, 3))
	assert.Equal(t, 7, x)
	assert.Equal(t, 3, y)

	x, y = CellAt(geom.Pt(-1, -1))
	assert.Equal(t, -1, x)
	assert.Equal(t, -1, y)
}
