package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"timercraft/internal/logger"
	"timercraft/internal/ui/tui"
)

const tuiLogFile = "tui.log"

// TUICmd runs the stopwatch in the terminal. Logs go to a file in the data
// directory so they do not draw over the screen.
type TUICmd struct{}

func (cmd *TUICmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	logPath := filepath.Join(cfg.DataDir, tuiLogFile)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	log := logger.NewWithWriter(cfg.LogLevel, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.start(ctx)

	model := tui.New(ctx, rt.stopwatch, rt.stopwatch, log.Named("tui"))
	return tui.Run(ctx, model)
}
