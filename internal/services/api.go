package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/session"
	"github.com/desertthunder/surf/internal/shared"
	"golang.org/x/oauth2"
)

// API paths of the backend.
const (
	PathSignin      = "/api/auth/signin"
	PathSignup      = "/api/auth/signup"
	PathProfile     = "/api/user/profile"
	PathPreferences = "/api/user/preferences"
	PathUpload      = "/api/process-video-complete"
	PathHealth      = "/health"

	HeaderAPIKey = "X-API-Key"
)

// ClientOpts configures a [Client]. Zero values fall back to the backend defaults.
type ClientOpts struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Store      session.Store
	Logger     *log.Logger
}

// Client calls the backend on behalf of the user recorded in a [session.Store].
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	store      session.Store
	logger     *log.Logger
}

// NewClient creates a [Client].
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = shared.DefaultBaseURL
	}
	if opts.APIKey == "" {
		opts.APIKey = shared.DefaultAPIKey
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: opts.HTTPClient,
		store:      opts.Store,
		logger:     opts.Logger,
	}
}

// Store returns the session store the client reads credentials from.
func (c *Client) Store() session.Store { return c.store }

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Signin exchanges credentials for a bearer token and stores it with the returned profile.
//
// A 401 is reported as invalid credentials and leaves the session untouched.
func (c *Client) Signin(ctx context.Context, req models.SigninRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, opSignin, http.MethodPost, PathSignin, "", req, &out); err != nil {
		return nil, err
	}
	if err := c.storeAuth(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates an account and stores the returned token and profile.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	if req.Metadata == nil {
		req.Metadata = []string{}
	}
	if req.LearningStyles == nil {
		req.LearningStyles = []string{}
	}

	var out models.AuthResponse
	if err := c.doJSON(ctx, opSignup, http.MethodPost, PathSignup, "", req, &out); err != nil {
		return nil, err
	}
	if err := c.storeAuth(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the authenticated user's profile and replaces the cached copy.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	gen := c.store.Generation()
	token := c.store.Token()
	if token == "" {
		return nil, notAuthenticated()
	}

	var out models.UserProfile
	if err := c.doJSON(ctx, opProfile, http.MethodGet, PathProfile, token, nil, &out); err != nil {
		return nil, err
	}
	c.cacheProfile(gen, out)
	return &out, nil
}

// UpdatePreferences replaces the mutable profile fields and caches the server's response.
func (c *Client) UpdatePreferences(ctx context.Context, req models.UpdatePreferencesRequest) (*models.UserProfile, error) {
	gen := c.store.Generation()
	token := c.store.Token()
	if token == "" {
		return nil, notAuthenticated()
	}
	if req.Metadata == nil {
		req.Metadata = []string{}
	}
	if req.LearningStyles == nil {
		req.LearningStyles = []string{}
	}

	var out models.UserProfile
	if err := c.doJSON(ctx, opPreferences, http.MethodPut, PathPreferences, token, req, &out); err != nil {
		return nil, err
	}
	c.cacheProfile(gen, out)
	return &out, nil
}

// cacheProfile stores profile unless the session was saved or cleared after gen was read.
func (c *Client) cacheProfile(gen uint64, profile models.UserProfile) {
	saved, err := c.store.SaveProfileIf(gen, profile)
	if err != nil {
		c.logger.Warn("failed to cache profile", "error", err)
		return
	}
	if !saved {
		c.logger.Debug("session changed during request, profile not cached", "username", profile.Username)
	}
}

// Health reports whether the backend is reachable.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.doJSON(ctx, opHealth, http.MethodGet, PathHealth, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) storeAuth(resp *models.AuthResponse) error {
	if resp.AccessToken == "" {
		c.logger.Warn("auth response did not include a token")
		return nil
	}
	if err := c.store.Save(resp.AccessToken, resp.User); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// doJSON sends an optional JSON body and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, op operation, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	respBody, err := c.do(ctx, op, method, path, token, body, contentType)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return networkError(op, fmt.Errorf("failed to decode response: %w", err))
		}
	}
	return nil
}

// do performs a request and returns the response body of a 2xx reply.
//
// Non-2xx replies become an [*Error]; a 401 on an authenticated call also clears the session.
// Context cancellation is returned unchanged.
func (c *Client) do(ctx context.Context, op operation, method, path, token string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(HeaderAPIKey, c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	c.logger.Debug("api request", "op", op.name, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, networkError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, networkError(op, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("api response", "op", op.name, "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := statusError(op, resp.StatusCode, respBody)
		if errors.Is(apiErr, shared.ErrAuthExpired) {
			if err := c.store.Clear(); err != nil {
				c.logger.Warn("failed to clear session", "error", err)
			}
		}
		return nil, apiErr
	}

	return respBody, nil
}
