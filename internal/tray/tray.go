// Package tray provides the system tray menu: toggle hand interaction, show
// what the hand is holding, open the debug page and quit.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onDebug  func()
	onQuit   func()
	enabled  bool
	status   string
	debugURL string
	quit     func()
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray with interaction enabled. debugURL is shown in the
// menu when not empty.
func New(debugURL string) *Tray {
	return &Tray{
		enabled:  true,
		status:   statusText(false, 0),
		debugURL: debugURL,
		quit:     systray.Quit,
	}
}

// OnToggle sets the callback called when hand interaction is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDebug sets the callback called when the debug page item is clicked.
func (t *Tray) OnDebug(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDebug = fn
}

// OnQuit sets the callback called when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It blocks until Quit and must be called from
// the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	t.quit()
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Skyhands")
	systray.SetTooltip("Skyhands: grab the sun")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleText(t.enabled), "Toggle hand interaction")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(t.status, "What the hand is doing")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	var debugCh chan struct{}
	if t.debugURL != "" {
		menuDebug := systray.AddMenuItem("Open "+t.debugURL, "Open the debug page in a browser")
		debugCh = menuDebug.ClickedCh
		systray.AddSeparator()
	}

	menuQuit := systray.AddMenuItem("Quit", "Quit Skyhands")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-debugCh:
				t.handleDebug()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleText(enabled bool) string {
	if enabled {
		return "● Hands enabled"
	}
	return "○ Hands disabled"
}

func statusText(grabbing bool, held int) string {
	switch {
	case held > 0:
		return fmt.Sprintf("Holding %d", held)
	case grabbing:
		return "Grabbing"
	default:
		return "Open hand"
	}
}

// handleToggle flips interaction and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleText(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleDebug() {
	t.mu.RLock()
	callback := t.onDebug
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	t.quit()
}

// SetStatus updates the status line from the latest frame. It only touches
// the menu when the text changes, so it can be called every frame.
func (t *Tray) SetStatus(grabbing bool, held int) {
	text := statusText(grabbing, held)

	t.mu.Lock()
	defer t.mu.Unlock()

	if text == t.status {
		return
	}
	t.status = text
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(text)
	}
}

// Status returns the current status line.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// SetEnabled sets the interaction state without calling the toggle callback,
// e.g. when restoring a stored setting.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleText(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
