package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/server"
	"github.com/urfave/cli/v3"
)

// demoAccount is created by `surf dev server --seed`.
var demoAccount = models.SignupRequest{
	Name:               "Demo Student",
	Username:           "demo",
	Password:           "demo",
	ConfirmPassword:    "demo",
	Age:                20,
	AcademicLevel:      "College",
	Major:              "Physics",
	LanguagePreference: "English",
	LearningStyles:     []string{"visual"},
}

// DevServer runs the local backend until the context is canceled.
func (r *Runner) DevServer(ctx context.Context, cmd *cli.Command) error {
	var result []byte
	if path := cmd.String("result"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read result file: %w", err)
		}
		result = data
	}

	backend := server.NewBackend(server.BackendOpts{
		APIKey:   r.config.API.APIKey,
		Secret:   cmd.String("secret"),
		TokenTTL: cmd.Duration("token-ttl"),
		Result:   result,
		Logger:   r.logger,
	})

	if cmd.Bool("seed") {
		if _, err := backend.Seed(demoAccount); err != nil {
			return fmt.Errorf("failed to seed demo account: %w", err)
		}
		r.logger.Info("seeded account", "username", demoAccount.Username, "password", demoAccount.Password)
	}

	return server.ListenAndServe(ctx, cmd.String("addr"), backend.Handler(), r.logger)
}
