package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timercraft/internal/ui/preferences"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TimerCraft", "settings.yaml")
	want := preferences.Settings{
		KeepInTray:     false,
		RestoreSession: false,
		LaunchAtLogin:  true,
		StartHidden:    true,
	}

	require.NoError(t, SaveSettings(path, want))

	got, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("launch_at_login: true\n"), 0o644))

	got, err := LoadSettings(path)
	require.NoError(t, err)

	want := preferences.DefaultSettings()
	want.LaunchAtLogin = true
	assert.Equal(t, want, got)
}

func TestLoadSettingsInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keep_in_tray: [nope"), 0o644))

	settings, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path, err := SettingsPath("TimerCraft")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("TimerCraft", "settings.yaml"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
