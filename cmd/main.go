package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"

	"timercraft/internal/config"
	"timercraft/internal/logger"
)

var stdout io.Writer = os.Stdout

// CLI is the command-line surface. gui runs when no command is given.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" type:"path"`
	EnvFile string `name:"env-file" help:"Dotenv file with TIMERCRAFT_* overrides" default:".env"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	GUI     GUICmd     `cmd:"" default:"withargs" help:"Run the desktop stopwatch with a tray icon"`
	TUI     TUICmd     `cmd:"" help:"Run the stopwatch in the terminal"`
	Trigger TriggerCmd `cmd:"" help:"Send start, stop or cancel to the running instance"`
	Status  StatusCmd  `cmd:"" help:"Print the state of the running instance"`
	History HistoryCmd `cmd:"" help:"List recent actions of the running instance"`
}

func (cli *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.Options{ConfigFile: cli.Config, EnvFile: cli.EnvFile})
	if err != nil {
		return config.Config{}, err
	}
	if cli.Verbose {
		cfg.LogLevel = logger.DebugLevel
	}
	return cfg, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("timercraft"),
		kong.Description("A stopwatch with start, stop, resume and cancel."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
