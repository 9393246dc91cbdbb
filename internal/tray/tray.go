// Package tray provides the system tray controls for the tree daemon.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray surface: a detection toggle, the last seen
// gesture, a shortcut to the viewer, and quit.
type Tray struct {
	onToggle   func(enabled bool)
	onOpenView func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuGesture *systray.MenuItem
}

// New creates a new Tray with detection enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when detection is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenViewer sets the callback invoked when the viewer item is clicked.
func (t *Tray) OnOpenViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenView = fn
}

// OnQuit sets the callback invoked when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// SetEnabled sets the initial toggle state shown in the menu.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit tears down the tray, unblocking Run. Used by the signal handler.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Tannenbaum")
	systray.SetTooltip("Gesture-driven holiday tree")

	t.mu.Lock()
	enabled := t.enabled
	t.mu.Unlock()

	title := "● Tracking"
	if !enabled {
		title = "○ Paused"
	}
	t.menuToggle = systray.AddMenuItem(title, "Toggle hand tracking")
	systray.AddSeparator()

	t.menuGesture = systray.AddMenuItem("Gesture: no hand", "Last detected gesture")
	t.menuGesture.Disable()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the tree in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Tannenbaum")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuViewer.ClickedCh:
				t.handleOpenViewer()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpenViewer() {
	t.mu.RLock()
	callback := t.onOpenView
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

	systray.Quit()
}

// SetGesture updates the gesture display in the menu.
func (t *Tray) SetGesture(label string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuGesture != nil {
		if label == "" {
			t.menuGesture.SetTitle("Gesture: no hand")
		} else {
			t.menuGesture.SetTitle("Gesture: " + label)
		}
	}
}

// IsEnabled returns the current toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
