package tray

import (
	"fmt"

	"fyne.io/fyne/v2"

	"timercraft/internal/core/model"
	"timercraft/internal/core/stopwatch"
	"timercraft/internal/ui/screen"
)

const menuTitle = "TimerCraft"

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnAction      func(model.Action)
	OnShow        func()
	OnPreferences func()
	OnQuit        func()
}

// Icons are swapped depending on whether the stopwatch is counting.
type Icons struct {
	Idle    fyne.Resource
	Running fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app         App
	icons       Icons
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	primaryItem *fyne.MenuItem
	cancelItem  *fyne.MenuItem
	view        screen.ControlsView
	running     bool
	iconSet     bool
}

// New creates a tray manager showing an idle stopwatch.
func New(app App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		icons:     icons,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.primaryItem = fyne.NewMenuItem(screen.LabelStart, func() {
		manager.fire(manager.view.PrimaryAction)
	})
	manager.cancelItem = fyne.NewMenuItem(screen.LabelCancel, func() {
		if manager.view.CancelEnabled {
			manager.fire(model.ActionCancel)
		}
	})

	manager.Update(stopwatch.Snapshot{State: model.StateIdle, Reading: model.ZeroReading})
	return manager
}

// Update reflects a stopwatch snapshot in the tray menu and icon.
func (manager *Manager) Update(snapshot stopwatch.Snapshot) {
	manager.view = screen.Controls(snapshot.State, snapshot.Reading.Seconds)
	manager.statusItem.Label = statusLabel(snapshot)
	manager.primaryItem.Label = manager.view.PrimaryLabel
	manager.cancelItem.Disabled = !manager.view.CancelEnabled

	running := snapshot.State == model.StateStarted
	if !manager.iconSet || running != manager.running {
		manager.running = running
		manager.iconSet = true
		manager.refreshIcon()
	}
	manager.refreshMenu()
}

// Menu returns the menu as currently built.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.buildMenu()
}

func (manager *Manager) fire(action model.Action) {
	if manager.callbacks.OnAction != nil {
		manager.callbacks.OnAction(action)
	}
}

func (manager *Manager) refreshIcon() {
	if manager.app == nil {
		return
	}
	icon := manager.icons.Idle
	if manager.running && manager.icons.Running != nil {
		icon = manager.icons.Running
	}
	if icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.buildMenu())
	}
}

func (manager *Manager) buildMenu() *fyne.Menu {
	return fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.primaryItem,
		manager.cancelItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show TimerCraft", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		manager.quitItem(),
	)
}

// quitItem replaces the Quit entry fyne would otherwise append to tray menus.
func (manager *Manager) quitItem() *fyne.MenuItem {
	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true
	return quit
}

func statusLabel(snapshot stopwatch.Snapshot) string {
	return fmt.Sprintf("Elapsed: %s (%s)", snapshot.Reading.String(), snapshot.State)
}
