package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/surf/internal/controllers"
	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow fetches the profile and refreshes the cached copy.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	profile, err := r.client.Profile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}
	return r.writeBytes(formatter.RenderProfile(profile))
}

// ProfileUpdate sends the current preferences with the flags that were set applied on top.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	current, err := r.client.Profile(ctx)
	if err != nil {
		return err
	}

	req, err := applyPreferenceFlags(cmd, current.Preferences())
	if err != nil {
		return err
	}

	ctl := controllers.NewDashboardController(controllers.DashboardOpts{
		API:    r.client,
		Store:  r.store,
		Logger: r.logger,
	})
	updated, err := ctl.SavePreferences(ctx, req)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(updated, true)
	}
	r.writePlain("✓ Preferences updated\n\n")
	return r.writeBytes(formatter.RenderProfile(updated))
}

func applyPreferenceFlags(cmd *cli.Command, req models.UpdatePreferencesRequest) (models.UpdatePreferencesRequest, error) {
	if cmd.IsSet("name") {
		req.Name = cmd.String("name")
	}
	if cmd.IsSet("age") {
		req.Age = int(cmd.Int("age"))
	}
	if cmd.IsSet("academic-level") {
		level, ok := pickOption(models.AcademicLevels, cmd.String("academic-level"))
		if !ok {
			return req, fmt.Errorf("%w: unknown academic level %q", shared.ErrInvalidArgument, cmd.String("academic-level"))
		}
		req.AcademicLevel = level
	}
	if cmd.IsSet("major") {
		req.Major = cmd.String("major")
	}
	if cmd.IsSet("dyslexia") {
		req.DyslexiaSupport = cmd.Bool("dyslexia")
	}
	if cmd.IsSet("language") {
		language, ok := pickOption(models.Languages, cmd.String("language"))
		if !ok {
			return req, fmt.Errorf("%w: unknown language %q", shared.ErrInvalidArgument, cmd.String("language"))
		}
		req.LanguagePreference = language
	}
	if cmd.IsSet("learning-style") {
		styles := []string{}
		for _, v := range cmd.StringSlice("learning-style") {
			id, ok := learningStyleID(v)
			if !ok {
				return req, fmt.Errorf("%w: unknown learning style %q", shared.ErrInvalidArgument, v)
			}
			styles = append(styles, id)
		}
		req.LearningStyles = styles
	}
	return req, nil
}
