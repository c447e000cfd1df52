package controllers

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/session"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/desertthunder/surf/internal/tasks"
)

// DashboardState is a snapshot of [DashboardController].
//
// A nil Profile means it has not been loaded and renders as a loading placeholder.
type DashboardState struct {
	Profile      *models.UserProfile
	IsProcessing bool
	HasContent   bool
	LastResult   *models.UploadResult
	Progress     int
	UploadError  string
	Saving       bool
	Error        string
}

// DashboardOpts configures a [DashboardController].
type DashboardOpts struct {
	API       ProfileAPI
	Uploader  Uploader
	Store     session.Store
	Navigator shared.Navigator
	Logger    *log.Logger
}

// DashboardController drives the dashboard: profile, uploads, preferences and logout.
type DashboardController struct {
	api      ProfileAPI
	uploader Uploader
	store    session.Store
	nav      shared.Navigator
	logger   *log.Logger

	mu         sync.Mutex
	state      DashboardState
	gen        uint64
	profileSeq uint64
	uploading  bool
}

// NewDashboardController creates a [DashboardController].
func NewDashboardController(opts DashboardOpts) *DashboardController {
	if opts.Navigator == nil {
		opts.Navigator = shared.NopNavigator{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}
	return &DashboardController{
		api:      opts.API,
		uploader: opts.Uploader,
		store:    opts.Store,
		nav:      opts.Navigator,
		logger:   opts.Logger,
	}
}

// State returns the current state.
func (c *DashboardController) State() DashboardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mount restores the last stored result and fetches the profile.
//
// The profile is only shown once fetched. A failed fetch is logged and leaves the profile nil;
// an expired session navigates to sign in.
func (c *DashboardController) Mount(ctx context.Context) error {
	c.mu.Lock()
	if raw := c.store.LastResult(); len(raw) > 0 && !c.state.IsProcessing {
		if r, err := models.ParseUploadResult(raw); err == nil {
			c.state.LastResult = r
			c.state.HasContent = true
		} else {
			c.logger.Warn("ignoring stored upload result", "error", err)
		}
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh fetches the profile from the server.
func (c *DashboardController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.profileSeq++
	gen, seq := c.gen, c.profileSeq
	c.mu.Unlock()

	profile, err := c.api.Profile(ctx)

	c.mu.Lock()
	if gen != c.gen || seq != c.profileSeq {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.state.Error = userMessage(err, MsgProfileFailed)
		c.mu.Unlock()
		c.logger.Error("failed to fetch profile", "error", err)
		if authExpired(err) {
			c.nav.Navigate(shared.RouteSignin)
		}
		return err
	}
	c.state.Profile = profile
	c.state.Error = ""
	c.mu.Unlock()
	return nil
}

// Upload runs the upload workflow for path and tracks its lifecycle flags.
//
// Starting clears the previous result; completion sets HasContent and LastResult; failure clears
// both and stores the message in UploadError.
func (c *DashboardController) Upload(ctx context.Context, path string, progress chan<- tasks.ProgressUpdate) (*models.UploadResult, error) {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.uploading = true
	gen := c.gen
	c.mu.Unlock()

	current := func(fn func(s *DashboardState)) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.gen {
			fn(&c.state)
		}
	}

	cb := tasks.Callbacks{
		OnStart: func() {
			current(func(s *DashboardState) {
				s.IsProcessing = true
				s.HasContent = false
				s.LastResult = nil
				s.Progress = 0
				s.UploadError = ""
			})
		},
		OnProgress: func(pct int) {
			current(func(s *DashboardState) { s.Progress = pct })
		},
		OnComplete: func(r *models.UploadResult) {
			current(func(s *DashboardState) {
				s.IsProcessing = false
				s.HasContent = true
				s.LastResult = r
				s.Progress = 100
			})
		},
		OnError: func(msg string) {
			current(func(s *DashboardState) {
				s.IsProcessing = false
				s.HasContent = false
				s.LastResult = nil
				s.UploadError = msg
			})
		},
	}

	result, err := c.uploader.Upload(ctx, path, cb, progress)

	c.mu.Lock()
	c.uploading = false
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return nil, ErrStale
	}
	return result, err
}

// SavePreferences updates the profile preferences.
func (c *DashboardController) SavePreferences(ctx context.Context, req models.UpdatePreferencesRequest) (*models.UserProfile, error) {
	if err := validate.Struct(req); err != nil {
		msg := validationMessage(err)
		c.mu.Lock()
		c.state.Error = msg
		c.mu.Unlock()
		return nil, formError(msg)
	}

	c.mu.Lock()
	if c.state.Saving {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state.Saving = true
	c.state.Error = ""
	c.profileSeq++
	gen, seq := c.gen, c.profileSeq
	c.mu.Unlock()

	profile, err := c.api.UpdatePreferences(ctx, req)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return nil, ErrStale
	}
	c.state.Saving = false
	if err != nil {
		c.state.Error = userMessage(err, MsgPreferencesFailed)
		c.mu.Unlock()
		c.logger.Error("failed to update preferences", "error", err)
		if authExpired(err) {
			c.nav.Navigate(shared.RouteSignin)
		}
		return nil, err
	}
	if seq == c.profileSeq {
		c.state.Profile = profile
	}
	c.mu.Unlock()

	c.logger.Info("preferences updated", "username", profile.Username)
	return profile, nil
}

// Logout clears the session, drops in-flight results and navigates to sign in.
func (c *DashboardController) Logout() error {
	c.Unmount()

	err := c.store.Clear()
	if err != nil {
		c.logger.Error("failed to clear session", "error", err)
	}
	c.nav.Navigate(shared.RouteSignin)
	return err
}

// Unmount resets the dashboard state and drops in-flight results.
func (c *DashboardController) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = DashboardState{}
}
