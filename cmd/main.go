package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/urfave/cli/v3"
)

// configPaths are searched in order when [shared.EnvConfigPath] is unset.
var configPaths = []string{"config.toml", "~/.surf/config.toml"}

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	configPath, config := loadConfig(logger)
	shared.SetLogLevel(logger, config.Logging.Level)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "surf",
		Usage:   "Turn lecture videos into interactive learning materials",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				runner.logger.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			logger.Warn("canceled")
			os.Exit(130)
		case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrAuthExpired):
			logger.Error(err.Error())
			os.Exit(1)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

// loadConfig reads the first config file found, then applies environment overrides.
//
// A missing or unreadable file falls back to the embedded defaults.
func loadConfig(logger *log.Logger) (string, *shared.Config) {
	paths := configPaths
	if p := os.Getenv(shared.EnvConfigPath); p != "" {
		paths = []string{p}
	}

	config := shared.DefaultConfig()
	path := ""
	for _, p := range paths {
		p = shared.ExpandHome(p)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		loaded, err := shared.LoadConfig(p)
		if err != nil {
			logger.Warn("failed to load config, using defaults", "path", p, "error", err)
			break
		}
		config, path = loaded, p
		break
	}

	config.ApplyEnv()
	config.Normalize()
	return path, config
}
