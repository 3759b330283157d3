package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"timercraft/internal/config"
	"timercraft/internal/core/model"
	"timercraft/internal/logger"
	"timercraft/internal/ui/preferences"
	"timercraft/internal/ui/screen"
	"timercraft/internal/ui/tray"
	"timercraft/resources"
)

const (
	appID        = "com.timercraft.app"
	trayBuffer   = 8
	windowWidth  = 420
	windowHeight = 280
)

// GUICmd runs the desktop window and tray menu.
type GUICmd struct {
	Hidden bool `help:"Start with the main window hidden in the tray"`
}

func (cmd *GUICmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		log.Errorw("startup_failed", "err", err)
		return err
	}
	defer rt.close()
	rt.start(ctx)

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconIdle))

	mainWindow := fyneApp.NewWindow(config.AppName)
	stopwatchScreen := screen.New(ctx, rt.stopwatch, log.Named("screen"))
	defer stopwatchScreen.Bind(rt.stopwatch)()
	mainWindow.SetContent(stopwatchScreen.Content())
	mainWindow.Resize(fyne.NewSize(windowWidth, windowHeight))

	var prefsWindow *preferences.Window
	prefsWindow = preferences.New(fyneApp, rt.settings, func(updated preferences.Settings) {
		if applied := rt.saveSettings(updated); applied != updated {
			prefsWindow.UpdateSettings(applied)
		}
	})

	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		unbindTray := bindTray(rt, desktopApp, tray.Callbacks{
			OnAction: func(action model.Action) {
				rt.dispatch(ctx, action)
			},
			OnShow: func() {
				mainWindow.Show()
				mainWindow.RequestFocus()
			},
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		defer unbindTray()
	} else {
		log.Infow("system_tray_unsupported")
	}

	mainWindow.SetCloseIntercept(func() {
		if hasTray && rt.settings.KeepInTray {
			mainWindow.Hide()
			return
		}
		fyneApp.Quit()
	})

	appDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			log.Infow("signal_received")
			fyne.Do(fyneApp.Quit)
		case <-appDone:
		}
	}()

	startHidden := hasTray && (cmd.Hidden || rt.settings.StartHidden)
	if !startHidden {
		mainWindow.Show()
	}
	fyneApp.Run()
	close(appDone)

	log.Infow("app_exit", "state", rt.stopwatch.Snapshot().State)
	return nil
}

// bindTray shows the tray menu and keeps it in sync until the returned func runs.
func bindTray(rt *runtime, desktopApp desktop.App, callbacks tray.Callbacks) func() {
	manager := tray.New(desktopApp, tray.Icons{
		Idle:    resources.MustIcon(resources.IconIdle),
		Running: resources.MustIcon(resources.IconRunning),
	}, callbacks)
	manager.Update(rt.stopwatch.Snapshot())

	events, unsubscribe := rt.stopwatch.Subscribe(trayBuffer)
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				manager.Update(snapshot)
			})
		}
	}()
	return unsubscribe
}
