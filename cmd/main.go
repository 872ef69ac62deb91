package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		stop()
		runner.Close(ctx, nil)
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "cparty",
		Usage:   "Find cocktails by ingredient and keep a list of favorites",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("CPARTY_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Override the configured log level (debug, info, warn, error)",
				Sources: cli.EnvVars("CPARTY_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep accounts and favorites in memory for this run only",
			},
		},
		Before:   r.Before,
		After:    r.Close,
		Commands: r.register(),
	}
}
