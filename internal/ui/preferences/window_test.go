package preferences

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowShowsCurrentSettings(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	settings := Settings{KeepInTray: false, RestoreSession: true, LaunchAtLogin: true, StartHidden: false}
	prefs := New(app, settings, nil)

	assert.False(t, prefs.keepInTray.Checked)
	assert.True(t, prefs.restore.Checked)
	assert.True(t, prefs.launchAtLogin.Checked)
	assert.False(t, prefs.startHidden.Checked)
}

func TestWindowSaveReportsEditedSettings(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved *Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = &settings
	})

	test.Tap(prefs.launchAtLogin)
	test.Tap(prefs.keepInTray)
	test.Tap(prefs.saveButton)

	require.NotNil(t, saved)
	want := DefaultSettings()
	want.LaunchAtLogin = true
	want.KeepInTray = false
	assert.Equal(t, want, *saved)
	assert.Equal(t, want, prefs.Settings())
}

func TestWindowCancelRevertsEdits(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	called := false
	prefs := New(app, DefaultSettings(), func(Settings) { called = true })

	test.Tap(prefs.startHidden)
	test.Tap(prefs.cancelButton)

	assert.False(t, called)
	assert.Equal(t, DefaultSettings().StartHidden, prefs.startHidden.Checked)
}
