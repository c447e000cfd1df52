package services

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/tidwall/gjson"
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	KindNotAuthenticated ErrorKind = iota // no token in the session; no request was sent
	KindUnauthorized                      // HTTP 401
	KindTooLarge                          // HTTP 413
	KindServer                            // any other non-2xx status
	KindNetwork                           // transport failure or unreadable response
	KindInvalidFile                       // the upload source could not be read
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindTooLarge:
		return "too_large"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindInvalidFile:
		return "invalid_file"
	default:
		return "unknown"
	}
}

// Messages shown to the user for failures that do not come from the server body.
const (
	MsgNotAuthenticated   = "No authentication token found. Please sign in again."
	MsgAuthExpired        = "Authentication expired. Please sign in again."
	MsgInvalidCredentials = "Invalid username or password"
	MsgFileTooLarge       = "Video file is too large. Please upload a smaller file."
)

// Error is returned by every [Client] operation that fails after argument checks.
//
// Message is the user-facing text. Err is one of the shared sentinels so that callers can match with
// [errors.Is]; Cause holds the underlying transport or decode error, if any.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details []models.ErrorDetail
	Err     error
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// AuthExpired reports whether the error requires the user to sign in again.
func (e *Error) AuthExpired() bool {
	if e.Kind == KindNotAuthenticated {
		return true
	}
	return e.Kind == KindUnauthorized && e.Err == shared.ErrAuthExpired
}

// operation names the fallback messages of one endpoint.
type operation struct {
	name    string
	generic string
	network string
	authed  bool
	upload  bool
}

var (
	opSignin = operation{
		name:    "signin",
		generic: "Signin failed",
		network: "Network error occurred during signin",
	}
	opSignup = operation{
		name:    "signup",
		generic: "Signup failed",
		network: "Network error occurred during signup",
	}
	opProfile = operation{
		name:    "profile",
		generic: "Failed to fetch user profile",
		network: "Network error occurred while fetching user profile",
		authed:  true,
	}
	opPreferences = operation{
		name:    "preferences",
		generic: "Failed to update user preferences",
		network: "Network error occurred while updating user preferences",
		authed:  true,
	}
	opUpload = operation{
		name:    "upload",
		generic: "Failed to upload video",
		network: "Network error occurred while uploading video",
		authed:  true,
		upload:  true,
	}
	opHealth = operation{
		name:    "health",
		generic: "Health check failed",
		network: "Network error occurred during health check",
	}
)

func notAuthenticated() *Error {
	return &Error{Kind: KindNotAuthenticated, Message: MsgNotAuthenticated, Err: shared.ErrNotAuthenticated}
}

func networkError(op operation, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: op.network, Err: shared.ErrNetwork, Cause: cause}
}

// statusError maps a non-2xx response to an [Error]. The session side effects of a 401 are applied by the caller.
func statusError(op operation, status int, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized && op.name == opSignin.name:
		return &Error{Kind: KindUnauthorized, Status: status, Message: MsgInvalidCredentials, Err: shared.ErrInvalidCredentials}
	case status == http.StatusUnauthorized && op.authed:
		return &Error{Kind: KindUnauthorized, Status: status, Message: MsgAuthExpired, Err: shared.ErrAuthExpired}
	case status == http.StatusRequestEntityTooLarge && op.upload:
		return &Error{Kind: KindTooLarge, Status: status, Message: MsgFileTooLarge, Err: shared.ErrFileTooLarge}
	}

	msg, details := parseDetail(body)
	if msg == "" {
		msg = op.generic
	}
	return &Error{Kind: KindServer, Status: status, Message: msg, Details: details, Err: shared.ErrAPIRequest}
}

// parseDetail extracts the user-facing message from a FastAPI error body.
//
// A list detail yields its msg fields joined by ", "; a string detail is used as is.
// Anything else yields "".
func parseDetail(body []byte) (string, []models.ErrorDetail) {
	if !gjson.ValidBytes(body) {
		return "", nil
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return strings.TrimSpace(detail.String()), nil
	case detail.IsArray():
		var details []models.ErrorDetail
		if err := json.Unmarshal([]byte(detail.Raw), &details); err != nil {
			details = nil
		}

		msgs := make([]string, 0, len(detail.Array()))
		for _, d := range detail.Array() {
			if m := d.Get("msg").String(); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, ", "), details
	default:
		return "", nil
	}
}
