package controllers

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

// Wizard steps.
const (
	StepBasicInfo = iota + 1
	StepAcademicInfo
	StepPreferences
)

// DefaultAge is the initial age of the sign-up form.
const DefaultAge = 18

// SignupForm holds the fields collected by the wizard.
type SignupForm struct {
	// Basic info
	Name            string
	Username        string
	Password        string
	ConfirmPassword string
	// Academic info
	Age           int
	AcademicLevel string
	Major         string
	// Preferences
	DyslexiaSupport    bool
	LanguagePreference string
	LearningStyles     []string
}

// Request converts the form to a sign-up request. Metadata is always empty.
func (f SignupForm) Request() models.SignupRequest {
	styles := slices.Clone(f.LearningStyles)
	if styles == nil {
		styles = []string{}
	}
	return models.SignupRequest{
		Name:               strings.TrimSpace(f.Name),
		Username:           strings.TrimSpace(f.Username),
		Password:           f.Password,
		ConfirmPassword:    f.ConfirmPassword,
		Age:                f.Age,
		AcademicLevel:      f.AcademicLevel,
		Major:              strings.TrimSpace(f.Major),
		DyslexiaSupport:    f.DyslexiaSupport,
		LanguagePreference: f.LanguagePreference,
		LearningStyles:     styles,
		Metadata:           []string{},
	}
}

// SignupState is a snapshot of [SignupController].
type SignupState struct {
	Step          int
	Form          SignupForm
	Status        Status
	Error         string
	PasswordError string
}

// SignupController drives the three step sign-up wizard.
type SignupController struct {
	api    AuthAPI
	nav    shared.Navigator
	logger *log.Logger

	mu    sync.Mutex
	state SignupState
	gen   uint64
}

// NewSignupController creates a [SignupController] on step one with default form values.
func NewSignupController(api AuthAPI, nav shared.Navigator, logger *log.Logger) *SignupController {
	if nav == nil {
		nav = shared.NopNavigator{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	c := &SignupController{api: api, nav: nav, logger: logger}
	c.state = initialSignupState()
	return c
}

func initialSignupState() SignupState {
	return SignupState{Step: StepBasicInfo, Form: SignupForm{Age: DefaultAge}}
}

// State returns a copy of the current state.
func (c *SignupController) State() SignupState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Form.LearningStyles = slices.Clone(c.state.Form.LearningStyles)
	return s
}

// Reset returns to step one with an empty form and drops any in-flight result.
func (c *SignupController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = initialSignupState()
}

// Next advances one step, stopping at the last step.
func (c *SignupController) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Step < StepPreferences {
		c.state.Step++
	}
	return c.state.Step
}

// Back returns one step, stopping at the first step.
func (c *SignupController) Back() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Step > StepBasicInfo {
		c.state.Step--
	}
	return c.state.Step
}

// Edit applies fn to the form and clears the last API error.
func (c *SignupController) Edit(fn func(f *SignupForm)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state.Form)
	if c.state.Status == StatusError {
		c.state.Status = StatusIdle
	}
	c.state.Error = ""
}

// ValidatePasswords updates the inline password error and reports whether the passwords match.
// An empty confirmation is not reported as a mismatch.
func (c *SignupController) ValidatePasswords() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.state.Form
	if f.ConfirmPassword != "" && f.Password != f.ConfirmPassword {
		c.state.PasswordError = MsgPasswordMismatch
		return false
	}
	c.state.PasswordError = ""
	return true
}

// ToggleLearningStyle selects or deselects a learning style. Selected styles stay unique and
// ordered as in [models.LearningStyles]; unknown ids are ignored.
func (c *SignupController) ToggleLearningStyle(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	known := false
	for _, s := range models.LearningStyles {
		if s.ID == id {
			known = true
			break
		}
	}
	if !known {
		return slices.Clone(c.state.Form.LearningStyles)
	}

	selected := map[string]bool{}
	for _, s := range c.state.Form.LearningStyles {
		selected[s] = true
	}
	selected[id] = !selected[id]

	styles := make([]string, 0, len(selected))
	for _, s := range models.LearningStyles {
		if selected[s.ID] {
			styles = append(styles, s.ID)
		}
	}
	c.state.Form.LearningStyles = styles
	return slices.Clone(styles)
}

// Submit validates the form and creates the account.
//
// Mismatched passwords fail with [MsgPasswordMismatch] and missing required fields with
// [MsgRequiredFields]; neither calls the API. On success the controller navigates to the dashboard.
func (c *SignupController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Status == StatusSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}

	req := c.state.Form.Request()
	if err := validate.Struct(req); err != nil {
		msg := validationMessage(err)
		if msg == MsgPasswordMismatch {
			c.state.PasswordError = msg
		} else {
			c.state.Status = StatusError
			c.state.Error = msg
		}
		c.mu.Unlock()
		return formError(msg)
	}

	c.state.Status = StatusSubmitting
	c.state.Error = ""
	c.state.PasswordError = ""
	gen := c.gen
	c.mu.Unlock()

	_, err := c.api.Signup(ctx, req)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("dropping stale sign-up result", "username", req.Username)
		return ErrStale
	}
	if err != nil {
		c.state.Status = StatusError
		c.state.Error = userMessage(err, MsgSignupFailed)
		c.mu.Unlock()
		c.logger.Warn("sign up failed", "username", req.Username, "error", err)
		return err
	}
	c.state.Status = StatusIdle
	c.mu.Unlock()

	c.logger.Info("account created", "username", req.Username)
	c.nav.Navigate(shared.RouteDashboard)
	return nil
}
