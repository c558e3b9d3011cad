// Package tray provides the system tray menu for a running pipeline: runtime
// toggles for the cursor and actions, plus the live mode and last action.
package tray

import (
	"sync"
	"sync/atomic"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/pipeline"
)

// Tray represents the system tray application.
// Toggle state is read by the frame loop on every frame, so it is kept in
// atomics rather than behind the menu mutex.
type Tray struct {
	frozen atomic.Bool
	paused atomic.Bool

	onQuit func()
	mu     sync.RWMutex

	// Menu items stored for later updates
	menuFreeze *systray.MenuItem
	menuPause  *systray.MenuItem
	menuMode   *systray.MenuItem
	menuAction *systray.MenuItem
}

// New creates a new Tray with the cursor live and actions enabled.
func New() *Tray {
	return &Tray{}
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand gesture control")

	t.mu.Lock()
	t.menuFreeze = systray.AddMenuItemCheckbox("Freeze cursor", "Stop moving the pointer", t.frozen.Load())
	t.menuPause = systray.AddMenuItemCheckbox("Pause actions", "Ignore every gesture except pointing", t.paused.Load())
	systray.AddSeparator()

	t.menuMode = systray.AddMenuItem("Mode: CURSOR", "Current context mode")
	t.menuMode.Disable()
	t.menuAction = systray.AddMenuItem("Last: none", "Last dispatched action")
	t.menuAction.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")
	freeze, pause := t.menuFreeze, t.menuPause
	t.mu.Unlock()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-freeze.ClickedCh:
				t.ToggleFreeze()
			case <-pause.ClickedCh:
				t.TogglePause()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// ToggleFreeze flips the cursor freeze and returns the new state.
func (t *Tray) ToggleFreeze() bool {
	frozen := flip(&t.frozen)

	t.mu.RLock()
	defer t.mu.RUnlock()
	setChecked(t.menuFreeze, frozen)
	return frozen
}

// TogglePause flips the action pause and returns the new state.
func (t *Tray) TogglePause() bool {
	paused := flip(&t.paused)

	t.mu.RLock()
	defer t.mu.RUnlock()
	setChecked(t.menuPause, paused)
	return paused
}

// SetToggles overwrites both toggles, e.g. from command line flags.
func (t *Tray) SetToggles(tg pipeline.Toggles) {
	t.frozen.Store(tg.CursorFrozen)
	t.paused.Store(tg.ActionsPaused)

	t.mu.RLock()
	defer t.mu.RUnlock()
	setChecked(t.menuFreeze, tg.CursorFrozen)
	setChecked(t.menuPause, tg.ActionsPaused)
}

// Toggles returns the current runtime toggles. Safe for concurrent use.
func (t *Tray) Toggles() pipeline.Toggles {
	return pipeline.Toggles{
		CursorFrozen:  t.frozen.Load(),
		ActionsPaused: t.paused.Load(),
	}
}

// SetStatus updates the mode and last action lines of the menu.
func (t *Tray) SetStatus(r pipeline.Result) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuMode != nil {
		t.menuMode.SetTitle("Mode: " + r.Mode.String())
	}
	if t.menuAction != nil && r.Edge {
		t.menuAction.SetTitle("Last: " + r.Action.String())
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// flip negates b atomically and returns the new value.
func flip(b *atomic.Bool) bool {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func setChecked(item *systray.MenuItem, on bool) {
	if item == nil {
		return
	}
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}
