package controllers

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

// SigninState is a snapshot of [SigninController].
type SigninState struct {
	Status Status
	Error  string
}

// Submitting reports whether a sign-in request is in flight.
func (s SigninState) Submitting() bool { return s.Status == StatusSubmitting }

// SigninController drives the sign-in screen.
type SigninController struct {
	api    AuthAPI
	nav    shared.Navigator
	logger *log.Logger

	mu    sync.Mutex
	state SigninState
	gen   uint64
}

// NewSigninController creates a [SigninController]. A nil navigator ignores navigation.
func NewSigninController(api AuthAPI, nav shared.Navigator, logger *log.Logger) *SigninController {
	if nav == nil {
		nav = shared.NopNavigator{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SigninController{api: api, nav: nav, logger: logger}
}

// State returns the current state.
func (c *SigninController) State() SigninState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset returns to idle and drops any in-flight result.
func (c *SigninController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = SigninState{}
}

// Submit signs in with the given credentials.
//
// Missing credentials fail with [MsgMissingCredentials] without calling the API. On success the
// controller navigates to the dashboard.
func (c *SigninController) Submit(ctx context.Context, username, password string) error {
	req := models.SigninRequest{Username: strings.TrimSpace(username), Password: password}

	c.mu.Lock()
	if c.state.Status == StatusSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}
	if err := validate.Struct(req); err != nil {
		c.state = SigninState{Status: StatusError, Error: MsgMissingCredentials}
		c.mu.Unlock()
		return formError(MsgMissingCredentials)
	}
	c.state = SigninState{Status: StatusSubmitting}
	gen := c.gen
	c.mu.Unlock()

	_, err := c.api.Signin(ctx, req)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("dropping stale sign-in result", "username", req.Username)
		return ErrStale
	}
	if err != nil {
		msg := userMessage(err, MsgSigninFailed)
		c.state = SigninState{Status: StatusError, Error: msg}
		c.mu.Unlock()
		c.logger.Warn("sign in failed", "username", req.Username, "error", err)
		return err
	}
	c.state = SigninState{}
	c.mu.Unlock()

	c.logger.Info("signed in", "username", req.Username)
	c.nav.Navigate(shared.RouteDashboard)
	return nil
}
