package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	keepInTray    *widget.Check
	restore       *widget.Check
	launchAtLogin *widget.Check
	startHidden   *widget.Check
	saveButton    *widget.Button
	cancelButton  *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("TimerCraft Settings")

	keepInTray := widget.NewCheck("Keep running in the tray when the window closes", nil)
	restore := widget.NewCheck("Restore the stopwatch on launch", nil)
	launchAtLogin := widget.NewCheck("Launch at login", nil)
	startHidden := widget.NewCheck("Start hidden in the tray", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		keepInTray,
		startHidden,
		restore,
		launchAtLogin,
	)

	saveButton := widget.NewButton("Save", nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 240))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		keepInTray:    keepInTray,
		restore:       restore,
		launchAtLogin: launchAtLogin,
		startHidden:   startHidden,
		saveButton:    saveButton,
		cancelButton:  cancelButton,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.keepInTray.SetChecked(settings.KeepInTray)
	prefs.restore.SetChecked(settings.RestoreSession)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	prefs.startHidden.SetChecked(settings.StartHidden)
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := Settings{
		KeepInTray:     prefs.keepInTray.Checked,
		RestoreSession: prefs.restore.Checked,
		LaunchAtLogin:  prefs.launchAtLogin.Checked,
		StartHidden:    prefs.startHidden.Checked,
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
