package preferences

// Settings defines editable user preferences.
type Settings struct {
	KeepInTray     bool
	RestoreSession bool
	LaunchAtLogin  bool
	StartHidden    bool
}

// DefaultSettings returns default settings for TimerCraft.
func DefaultSettings() Settings {
	return Settings{
		KeepInTray:     true,
		RestoreSession: true,
		LaunchAtLogin:  false,
		StartHidden:    false,
	}
}
