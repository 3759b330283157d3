package main

import (
	"context"
	"fmt"
	"time"

	"timercraft/internal/config"
	"timercraft/internal/control"
	"timercraft/internal/core/model"
	"timercraft/internal/platform"
)

const remoteTimeout = 5 * time.Second

// Remote selects the running instance to talk to.
type Remote struct {
	Address string `help:"Control address of the running instance (defaults to the single-instance port)"`
}

func (remote Remote) client() *control.Client {
	address := remote.Address
	if address == "" {
		address = platform.InstanceAddress(config.AppName)
	}
	return control.NewClient(address)
}

// TriggerCmd sends one action to the running instance.
type TriggerCmd struct {
	Remote
	Action string `arg:"" help:"start, stop, cancel or a full ACTION_SERVICE_* identifier"`
}

func (cmd *TriggerCmd) Run() error {
	action, err := model.ParseAction(cmd.Action)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	if err := cmd.client().Trigger(ctx, action); err != nil {
		return fmt.Errorf("trigger %s: %w", action.Short(), err)
	}
	fmt.Fprintf(stdout, "queued %s\n", action)
	return nil
}

// StatusCmd prints the running instance's reading and controls.
type StatusCmd struct {
	Remote
}

func (cmd *StatusCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	state, err := cmd.client().State(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	cancelHint := "disabled"
	if state.Controls.CancelEnabled {
		cancelHint = "enabled"
	}
	fmt.Fprintf(stdout, "%s:%s:%s %s\n", state.Hours, state.Minutes, state.Seconds, state.State)
	fmt.Fprintf(stdout, "primary: %s, cancel: %s\n", state.Controls.PrimaryLabel, cancelHint)
	return nil
}

// HistoryCmd lists recent actions, newest first.
type HistoryCmd struct {
	Remote
	Limit int `short:"n" help:"Number of actions to list" default:"10"`
}

func (cmd *HistoryCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	records, err := cmd.client().Actions(ctx, cmd.Limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "no actions recorded")
		return nil
	}
	for _, record := range records {
		fmt.Fprintf(stdout, "%s  %-6s %s -> %s  %s\n",
			record.OccurredAt.Local().Format(time.DateTime),
			record.Action.Short(),
			record.From,
			record.To,
			model.NewTimerReading(record.Elapsed),
		)
	}
	return nil
}
