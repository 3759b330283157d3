package platform

import (
	"fmt"
	"os"
	"strings"
)

// Entry describes the command launched at login.
type Entry struct {
	AppName  string
	ExecPath string
	Args     []string
}

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(entry Entry) error
	DisableAutostart(appName string) error
}

type platformService struct {
	// overrides used by tests; empty means the OS default
	configDir string
	homeDir   string
}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	if service.configDir != "" {
		return service.configDir, nil
	}
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := service.userHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

func (service *platformService) userHomeDir() (string, error) {
	if service.homeDir != "" {
		return service.homeDir, nil
	}
	return os.UserHomeDir()
}

// SetAutostart enables or disables the login entry.
func SetAutostart(service Service, enabled bool, entry Entry) error {
	if enabled {
		return service.EnableAutostart(entry)
	}
	return service.DisableAutostart(entry.AppName)
}

func validateEntry(entry Entry) error {
	if strings.TrimSpace(entry.AppName) == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if strings.TrimSpace(entry.ExecPath) == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	return nil
}

func slug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "timercraft"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
