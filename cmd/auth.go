package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/surf/internal/controllers"
	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSignin signs in through the sign-in controller and stores the session.
func (r *Runner) AuthSignin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	var err error
	if username == "" {
		if username, err = r.prompt("Username"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = r.promptSecret("Password"); err != nil {
			return err
		}
	}

	ctl := controllers.NewSigninController(r.client, nil, r.logger)
	if err := ctl.Submit(ctx, username, password); err != nil {
		return err
	}

	profile := r.store.Profile()
	name := username
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}
	return r.writePlain("✓ Signed in as %s\n", name)
}

// AuthSignup walks through the three sign-up steps on stdin.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	ctl := controllers.NewSignupController(r.client, nil, r.logger)

	r.writePlainHeader("Step 1 of 3: Basic Information")
	name, err := r.prompt("Full name")
	if err != nil {
		return err
	}
	username, err := r.prompt("Username")
	if err != nil {
		return err
	}
	for {
		password, err := r.promptSecret("Password")
		if err != nil {
			return err
		}
		confirm, err := r.promptSecret("Confirm password")
		if err != nil {
			return err
		}
		ctl.Edit(func(f *controllers.SignupForm) {
			f.Name, f.Username = name, username
			f.Password, f.ConfirmPassword = password, confirm
		})
		if ctl.ValidatePasswords() {
			break
		}
		r.writePlain("✗ %s\n", ctl.State().PasswordError)
	}
	ctl.Next()

	r.writePlainHeader("Step 2 of 3: Academic Information")
	age, err := r.promptAge()
	if err != nil {
		return err
	}
	level, err := r.promptChoice("Academic level", models.AcademicLevels)
	if err != nil {
		return err
	}
	major, err := r.prompt("Major (optional)")
	if err != nil {
		return err
	}
	ctl.Edit(func(f *controllers.SignupForm) {
		f.Age, f.AcademicLevel, f.Major = age, level, major
	})
	ctl.Next()

	r.writePlainHeader("Step 3 of 3: Learning Preferences")
	dyslexia, err := r.promptConfirm("Enable dyslexia support", false)
	if err != nil {
		return err
	}
	language, err := r.promptChoice("Language", models.Languages)
	if err != nil {
		return err
	}
	styles, err := r.promptLearningStyles()
	if err != nil {
		return err
	}
	ctl.Edit(func(f *controllers.SignupForm) {
		f.DyslexiaSupport, f.LanguagePreference = dyslexia, language
	})
	for _, id := range styles {
		ctl.ToggleLearningStyle(id)
	}

	if err := ctl.Submit(ctx); err != nil {
		return err
	}

	return r.writePlain("\n✓ Account created, signed in as %s\n", strings.TrimSpace(username))
}

func (r *Runner) promptAge() (int, error) {
	for {
		v, err := r.promptDefault("Age", strconv.Itoa(controllers.DefaultAge))
		if err != nil {
			return 0, err
		}
		age, err := strconv.Atoi(v)
		if err == nil && age >= 0 && age <= 150 {
			return age, nil
		}
		r.writePlain("✗ %s\n", controllers.MsgInvalidAge)
	}
}

// promptLearningStyles reads a comma separated list of learning style numbers.
func (r *Runner) promptLearningStyles() ([]string, error) {
	for i, s := range models.LearningStyles {
		r.writePlain("  %d. %s: %s\n", i+1, s.Label, s.Description)
	}
	for {
		v, err := r.prompt("Learning styles (comma separated, optional)")
		if err != nil {
			return nil, err
		}
		ids, ok := parseLearningStyles(v)
		if ok {
			return ids, nil
		}
		r.writePlain("Please enter numbers between 1 and %d\n", len(models.LearningStyles))
	}
}

// parseLearningStyles resolves numbers or ids such as "1,visual" into learning style ids.
func parseLearningStyles(v string) ([]string, bool) {
	var ids []string
	for part := range strings.SplitSeq(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := learningStyleID(part)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func learningStyleID(v string) (string, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > len(models.LearningStyles) {
			return "", false
		}
		return models.LearningStyles[n-1].ID, true
	}
	for _, s := range models.LearningStyles {
		if strings.EqualFold(s.ID, v) {
			return s.ID, true
		}
	}
	return "", false
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	r.logger.Info("session cleared")
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus checks the backend health endpoint and reports the stored session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking backend status", "url", r.client.BaseURL())

	health, err := r.client.Health(ctx)
	if err != nil {
		r.writePlain("✗ Backend unavailable at %s\n", r.client.BaseURL())
	} else {
		r.writePlain("✓ Backend is %s (%s)\n", health.Status, r.client.BaseURL())
	}

	profile := r.store.Profile()
	if !r.store.Authenticated() || profile == nil {
		r.writePlain("Session: ✗ Not signed in\n")
	} else {
		r.writePlain("Session: ✓ Signed in\n\n")
		r.writeBytes(formatter.RenderProfile(profile))
	}

	if err != nil {
		return errors.Join(shared.ErrServiceUnavailable, err)
	}
	return nil
}
