package tray

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timercraft/internal/core/model"
	"timercraft/internal/core/stopwatch"
)

type fakeTrayApp struct {
	menus []*fyne.Menu
	icons []fyne.Resource
}

func (app *fakeTrayApp) SetSystemTrayMenu(menu *fyne.Menu) { app.menus = append(app.menus, menu) }

func (app *fakeTrayApp) SetSystemTrayIcon(icon fyne.Resource) { app.icons = append(app.icons, icon) }

var (
	idleIcon    = fyne.NewStaticResource("idle.svg", []byte("<svg/>"))
	runningIcon = fyne.NewStaticResource("running.svg", []byte("<svg/>"))
)

func snapshotOf(state model.RunState, elapsed time.Duration) stopwatch.Snapshot {
	return stopwatch.Snapshot{State: state, Reading: model.NewTimerReading(elapsed), Elapsed: elapsed}
}

func findItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	require.Failf(t, "menu item missing", "label %q", label)
	return nil
}

func TestNewInstallsIdleMenu(t *testing.T) {
	app := &fakeTrayApp{}
	manager := New(app, Icons{Idle: idleIcon, Running: runningIcon}, Callbacks{})

	require.NotEmpty(t, app.menus)
	menu := app.menus[len(app.menus)-1]
	assert.Equal(t, "Elapsed: 00:00:00 (idle)", menu.Items[0].Label)
	assert.True(t, menu.Items[0].Disabled)
	assert.False(t, findItem(t, menu, "Start").Disabled)
	assert.True(t, findItem(t, menu, "Cancel").Disabled)
	assert.Equal(t, []fyne.Resource{idleIcon}, app.icons)
	assert.Same(t, manager.statusItem, menu.Items[0])
}

func TestUpdateFollowsControlsRules(t *testing.T) {
	app := &fakeTrayApp{}
	var fired []model.Action
	manager := New(app, Icons{Idle: idleIcon, Running: runningIcon}, Callbacks{
		OnAction: func(action model.Action) { fired = append(fired, action) },
	})

	manager.Update(snapshotOf(model.StateStarted, 65*time.Second))
	menu := manager.Menu()
	assert.Equal(t, "Elapsed: 00:01:05 (started)", menu.Items[0].Label)
	stop := findItem(t, menu, "Stop")
	assert.True(t, findItem(t, menu, "Cancel").Disabled)
	stop.Action()
	findItem(t, menu, "Cancel").Action()

	manager.Update(snapshotOf(model.StateStopped, 65*time.Second))
	menu = manager.Menu()
	findItem(t, menu, "Resume").Action()
	cancel := findItem(t, menu, "Cancel")
	assert.False(t, cancel.Disabled)
	cancel.Action()

	assert.Equal(t, []model.Action{model.ActionStop, model.ActionStart, model.ActionCancel}, fired)
}

func TestIconSwitchesOnlyOnRunningChange(t *testing.T) {
	app := &fakeTrayApp{}
	manager := New(app, Icons{Idle: idleIcon, Running: runningIcon}, Callbacks{})

	manager.Update(snapshotOf(model.StateStarted, time.Second))
	manager.Update(snapshotOf(model.StateStarted, 2*time.Second))
	manager.Update(snapshotOf(model.StateStopped, 2*time.Second))

	assert.Equal(t, []fyne.Resource{idleIcon, runningIcon, idleIcon}, app.icons)
}

func TestMenuCallbacks(t *testing.T) {
	var shown, prefs, quit bool
	manager := New(&fakeTrayApp{}, Icons{}, Callbacks{
		OnShow:        func() { shown = true },
		OnPreferences: func() { prefs = true },
		OnQuit:        func() { quit = true },
	})

	menu := manager.Menu()
	findItem(t, menu, "Show TimerCraft").Action()
	findItem(t, menu, "Preferences").Action()
	quitItem := findItem(t, menu, "Quit")
	assert.True(t, quitItem.IsQuit)
	quitItem.Action()

	assert.True(t, shown)
	assert.True(t, prefs)
	assert.True(t, quit)
}

func TestNilAppIsTolerated(t *testing.T) {
	manager := New(nil, Icons{Idle: idleIcon}, Callbacks{})
	manager.Update(snapshotOf(model.StateStarted, time.Second))
	assert.Equal(t, "Stop", manager.primaryItem.Label)
}
