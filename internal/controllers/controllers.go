// Package controllers holds the screen state machines of the client.
//
// A controller owns the local state of one screen (current step, busy flags, error text), calls the
// API client or upload workflow and routes through a [shared.Navigator]. Methods block on network
// calls and are safe to call from goroutines; read state with the State method.
//
// Every controller keeps a generation counter that Reset (or Logout/Unmount) advances. A request
// that finishes after its generation was superseded has its result dropped.
package controllers

import (
	"context"
	"errors"
	"strings"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/services"
	"github.com/desertthunder/surf/internal/tasks"
	"github.com/go-playground/validator/v10"
)

// User facing messages.
const (
	MsgMissingCredentials = "Please enter both username and password"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgRequiredFields     = "Please fill in all required fields"
	MsgInvalidAge         = "Please enter a valid age"
	MsgSigninFailed       = "An error occurred during sign in"
	MsgSignupFailed       = "An error occurred during signup"
	MsgProfileFailed      = "Failed to load user profile"
	MsgPreferencesFailed  = "Failed to update preferences"
)

var (
	// ErrBusy is returned when a request is started while another is in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrStale is returned when a result was dropped because the controller was reset.
	ErrStale = errors.New("result superseded")
)

// Status is the request state of a form screen.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// AuthAPI signs users in. Implemented by [services.Client].
type AuthAPI interface {
	Signin(ctx context.Context, req models.SigninRequest) (*models.AuthResponse, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
}

// ProfileAPI reads and updates the signed-in profile. Implemented by [services.Client].
type ProfileAPI interface {
	Profile(ctx context.Context) (*models.UserProfile, error)
	UpdatePreferences(ctx context.Context, req models.UpdatePreferencesRequest) (*models.UserProfile, error)
}

// Uploader runs the upload workflow. Implemented by [tasks.UploadWorkflow].
type Uploader interface {
	Upload(ctx context.Context, path string, cb tasks.Callbacks, progress chan<- tasks.ProgressUpdate) (*models.UploadResult, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationMessage maps struct validation failures to a single user facing message.
// Password confirmation is checked before required fields.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MsgRequiredFields
	}

	msg := ""
	for _, fe := range verrs {
		switch fe.Tag() {
		case "eqfield":
			return MsgPasswordMismatch
		case "gte", "lte":
			if msg == "" {
				msg = MsgInvalidAge
			}
		default:
			msg = MsgRequiredFields
		}
	}
	return msg
}

// userMessage returns the API error text, or fallback for failures that did not come from the API.
func userMessage(err error, fallback string) string {
	var apiErr *services.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, context.Canceled) {
		return "Request canceled"
	}
	return fallback
}

// authExpired reports whether err should send the user back to sign in.
func authExpired(err error) bool {
	var apiErr *services.Error
	if errors.As(err, &apiErr) {
		return apiErr.AuthExpired()
	}
	return strings.Contains(err.Error(), services.MsgAuthExpired)
}

// FormError is a validation failure detected before any request was sent.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

func formError(msg string) error { return &FormError{Message: msg} }
