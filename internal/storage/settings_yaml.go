package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"timercraft/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

// yamlSettings uses pointers so a missing key keeps its default.
type yamlSettings struct {
	KeepInTray     *bool `yaml:"keep_in_tray,omitempty"`
	RestoreSession *bool `yaml:"restore_session,omitempty"`
	LaunchAtLogin  *bool `yaml:"launch_at_login,omitempty"`
	StartHidden    *bool `yaml:"start_hidden,omitempty"`
}

// SettingsPath returns the settings file location for the application.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		KeepInTray:     &settings.KeepInTray,
		RestoreSession: &settings.RestoreSession,
		LaunchAtLogin:  &settings.LaunchAtLogin,
		StartHidden:    &settings.StartHidden,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.KeepInTray != nil {
		settings.KeepInTray = *fileData.KeepInTray
	}
	if fileData.RestoreSession != nil {
		settings.RestoreSession = *fileData.RestoreSession
	}
	if fileData.LaunchAtLogin != nil {
		settings.LaunchAtLogin = *fileData.LaunchAtLogin
	}
	if fileData.StartHidden != nil {
		settings.StartHidden = *fileData.StartHidden
	}
}
