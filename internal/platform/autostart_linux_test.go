//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinuxAutostartWritesAndRemovesDesktopEntry(t *testing.T) {
	dir := t.TempDir()
	service := &platformService{configDir: dir}
	entry := Entry{AppName: "TimerCraft", ExecPath: "/opt/Timer Craft/timercraft", Args: []string{"gui", "--hidden"}}

	require.NoError(t, service.EnableAutostart(entry))

	path := filepath.Join(dir, "autostart", "timercraft.desktop")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name=TimerCraft\n")
	assert.Contains(t, string(data), `Exec="/opt/Timer Craft/timercraft" gui --hidden`)

	require.NoError(t, service.DisableAutostart("TimerCraft"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, service.DisableAutostart("TimerCraft"), "removing a missing entry is not an error")
}

func TestLinuxAutostartRejectsEmptyEntry(t *testing.T) {
	service := &platformService{configDir: t.TempDir()}
	assert.Error(t, service.EnableAutostart(Entry{AppName: "TimerCraft"}))
	assert.Error(t, service.DisableAutostart(""))
}
