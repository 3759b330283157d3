package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"

	"timercraft/internal/config"
	"timercraft/internal/control"
	"timercraft/internal/core/model"
	"timercraft/internal/core/stopwatch"
	"timercraft/internal/logger"
	"timercraft/internal/metrics"
	"timercraft/internal/platform"
	"timercraft/internal/storage"
	"timercraft/internal/storage/db"
	"timercraft/internal/ui/preferences"
)

// runtime owns the stopwatch and the services around it, including the
// control API on the single-instance listener.
type runtime struct {
	cfg          config.Config
	log          *logger.Logger
	guard        *platform.InstanceGuard
	database     *sql.DB
	store        *storage.SessionSQLite
	metrics      http.Handler
	stopwatch    *stopwatch.Service
	settingsPath string
	settings     preferences.Settings
	autostart    platform.Service

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newRuntime(ctx context.Context, cfg config.Config, log *logger.Logger) (*runtime, error) {
	guard, err := platform.AcquireSingleInstance(config.AppName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			return nil, fmt.Errorf("%w; use `timercraft trigger` to control it", err)
		}
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log, guard: guard, autostart: platform.NewService()}
	if err := rt.init(ctx); err != nil {
		rt.close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) init(ctx context.Context) error {
	settingsPath, err := storage.SettingsPath(config.AppName)
	if err != nil {
		return err
	}
	rt.settingsPath = settingsPath
	rt.settings, err = storage.LoadSettings(settingsPath)
	if err != nil {
		rt.log.Warnw("settings_load_failed", "path", settingsPath, "err", err)
		rt.settings = preferences.DefaultSettings()
	}

	if err := os.MkdirAll(filepath.Dir(rt.cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	rt.database, err = db.InitDB(rt.cfg.Database.Path)
	if err != nil {
		return err
	}
	rt.store = storage.NewSessionSQLite(rt.database)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if rt.cfg.Metrics.Enabled {
		prometheusRecorder := metrics.NewPrometheusRecorder(prom.NewRegistry())
		recorder = prometheusRecorder
		rt.metrics = prometheusRecorder.Handler()
	}

	rt.stopwatch = stopwatch.New(
		model.StopwatchConfig{TickInterval: rt.cfg.TickInterval},
		stopwatch.Dependencies{
			Store:    rt.store,
			Recorder: recorder,
			Logger:   rt.log.Named("stopwatch"),
		},
	)

	if rt.settings.RestoreSession {
		if err := rt.stopwatch.Restore(ctx); err != nil {
			rt.log.Warnw("session_restore_failed", "err", err)
		}
	}
	rt.log.Infow("runtime_ready",
		"database", rt.cfg.Database.Path,
		"control", rt.guard.Address(),
		"tick_interval", rt.cfg.TickInterval.String(),
	)
	return nil
}

// start runs the stopwatch and, when enabled, the control API until close.
func (rt *runtime) start(ctx context.Context) {
	ctx, rt.cancel = context.WithCancel(ctx)

	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		if err := rt.stopwatch.Run(ctx); err != nil {
			rt.log.Errorw("stopwatch_stopped", "err", err)
		}
	}()

	if !rt.cfg.Control.Enabled {
		return
	}
	handler := control.NewHandler(rt.stopwatch, rt.store, rt.metrics, rt.log.Named("control"))
	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		if err := control.Serve(ctx, rt.guard.Listener(), handler.InitRoutes(), rt.log.Named("control")); err != nil {
			rt.log.Errorw("control_failed", "err", err)
		}
	}()
}

// dispatch triggers an action without waiting for it to be applied.
func (rt *runtime) dispatch(ctx context.Context, action model.Action) {
	go func() {
		if err := rt.stopwatch.Trigger(ctx, action); err != nil {
			rt.log.Warnw("dispatch_failed", "action", action.Short(), "err", err)
		}
	}()
}

// saveSettings applies a launch-at-login change, then persists the settings
// that actually took effect. A failed autostart change keeps the previous
// choice so the stored preference matches the OS entry.
func (rt *runtime) saveSettings(updated preferences.Settings) preferences.Settings {
	previous := rt.settings
	if previous.LaunchAtLogin != updated.LaunchAtLogin {
		if err := rt.applyAutostart(updated.LaunchAtLogin); err != nil {
			rt.log.Errorw("autostart_failed", "enabled", updated.LaunchAtLogin, "err", err)
			updated.LaunchAtLogin = previous.LaunchAtLogin
		} else {
			rt.log.Infow("autostart_updated", "enabled", updated.LaunchAtLogin)
		}
	}

	rt.settings = updated
	if err := storage.SaveSettings(rt.settingsPath, updated); err != nil {
		rt.log.Errorw("settings_save_failed", "path", rt.settingsPath, "err", err)
	}
	return updated
}

func (rt *runtime) applyAutostart(enabled bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	entry := platform.Entry{AppName: config.AppName, ExecPath: execPath, Args: []string{"gui", "--hidden"}}
	return platform.SetAutostart(rt.autostart, enabled, entry)
}

// close stops the stopwatch, waits for its final save, then releases resources.
func (rt *runtime) close() {
	if rt.cancel != nil {
		rt.cancel()
	}
	rt.wg.Wait()

	if rt.database != nil {
		if err := rt.database.Close(); err != nil {
			rt.log.Warnw("database_close_failed", "err", err)
		}
	}
	if err := rt.guard.Release(); err != nil {
		rt.log.Warnw("instance_release_failed", "err", err)
	}
	_ = rt.log.Sync()
}
