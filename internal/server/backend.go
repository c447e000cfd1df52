package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

//go:embed sample_result.json
var sampleResult []byte

const (
	DefaultMaxUploadBytes int64 = 500 << 20
	DefaultTokenTTL             = 24 * time.Hour
	DefaultSecret               = "surf-dev-secret"
)

// Detail messages returned by the backend.
const (
	DetailInvalidCredentials = "Invalid username or password"
	DetailUsernameTaken      = "Username already registered"
	DetailUnauthorized       = "Could not validate credentials"
	DetailFileTooLarge       = "File too large"
	DetailInvalidFileType    = "Invalid file type. Please upload a video file."
)

const timestampLayout = "2006-01-02T15:04:05.999999"

// BackendOpts configures a [Backend]. Zero values use the defaults.
type BackendOpts struct {
	APIKey         string
	Secret         string
	TokenTTL       time.Duration
	MaxUploadBytes int64
	// Result is returned by the upload endpoint with user_context filled from the form.
	Result []byte
	Logger *log.Logger
	// BcryptCost defaults to [bcrypt.DefaultCost].
	BcryptCost int
}

type account struct {
	passwordHash []byte
	profile      models.UserProfile
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Backend is an in-memory implementation of the learning platform API.
//
// It serves the same routes, status codes and error bodies as the real backend and is used by
// `surf dev server` and the integration tests.
type Backend struct {
	apiKey    string
	secret    []byte
	ttl       time.Duration
	maxUpload int64
	result    []byte
	cost      int
	logger    *log.Logger
	validate  *validator.Validate

	mu    sync.RWMutex
	users map[string]*account
}

// NewBackend creates a [Backend] without any accounts.
func NewBackend(opts BackendOpts) *Backend {
	if opts.APIKey == "" {
		opts.APIKey = shared.DefaultAPIKey
	}
	if opts.Secret == "" {
		opts.Secret = DefaultSecret
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(opts.Result) == 0 {
		opts.Result = sampleResult
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Backend{
		apiKey:    opts.APIKey,
		secret:    []byte(opts.Secret),
		ttl:       opts.TokenTTL,
		maxUpload: opts.MaxUploadBytes,
		result:    opts.Result,
		cost:      opts.BcryptCost,
		logger:    opts.Logger,
		validate:  v,
		users:     make(map[string]*account),
	}
}

// Handler returns the full route table wrapped with recovery, request logging and the API key check.
func (b *Backend) Handler() http.Handler {
	r := NewBasicRouter()
	r.Use(Recoverer(b.logger), RequestLogger(b.logger), RequireAPIKey(b.apiKey))
	b.Register(r)
	return r
}

// Register adds the backend routes to r.
func (b *Backend) Register(r Router) {
	r.Handle(http.MethodPost, "/api/auth/signin", http.HandlerFunc(b.signin))
	r.Handle(http.MethodPost, "/api/auth/signup", http.HandlerFunc(b.signup))
	r.Handle(http.MethodGet, "/api/user/profile", http.HandlerFunc(b.profile))
	r.Handle(http.MethodPut, "/api/user/preferences", http.HandlerFunc(b.preferences))
	r.Handle(http.MethodPost, "/api/process-video-complete", http.HandlerFunc(b.upload))
	r.Handler(healthHandler{})
}

// Seed creates an account directly, as if req had been posted to the signup endpoint.
func (b *Backend) Seed(req models.SignupRequest) (*models.UserProfile, error) {
	if err := b.validate.StructExcept(req, "ConfirmPassword"); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return b.createUser(req)
}

// Token issues an access token for username, used by tests to skip signin.
func (b *Backend) Token(username string) (string, error) {
	now := time.Now()
	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(b.secret)
}

var errUsernameTaken = errors.New("username taken")

func (b *Backend) createUser(req models.SignupRequest) (*models.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), b.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := models.UserProfile{
		ID:                 shared.GenerateID(),
		Name:               req.Name,
		Username:           req.Username,
		Age:                req.Age,
		AcademicLevel:      req.AcademicLevel,
		Major:              req.Major,
		DyslexiaSupport:    req.DyslexiaSupport,
		LanguagePreference: req.LanguagePreference,
		LearningStyles:     nonNil(req.LearningStyles),
		Metadata:           nonNil(req.Metadata),
		CreatedAt:          time.Now().UTC().Format(timestampLayout),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[req.Username]; ok {
		return nil, errUsernameTaken
	}
	b.users[req.Username] = &account{passwordHash: hash, profile: profile}
	return &profile, nil
}

func (b *Backend) signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if !b.decode(w, r, &req) {
		return
	}

	b.mu.RLock()
	acct, ok := b.users[req.Username]
	var profile models.UserProfile
	if ok {
		profile = acct.profile
	}
	b.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, DetailInvalidCredentials)
		return
	}

	b.writeAuth(w, profile)
}

func (b *Backend) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := b.validate.StructExcept(req, "ConfirmPassword"); err != nil {
		writeValidation(w, err)
		return
	}

	profile, err := b.createUser(req)
	if errors.Is(err, errUsernameTaken) {
		writeDetail(w, http.StatusBadRequest, DetailUsernameTaken)
		return
	}
	if err != nil {
		b.logger.Error("signup failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	b.logger.Info("account created", "username", profile.Username)
	b.writeAuth(w, *profile)
}

func (b *Backend) profile(w http.ResponseWriter, r *http.Request) {
	acct, ok := b.authorize(w, bearerToken(r))
	if !ok {
		return
	}

	b.mu.RLock()
	profile := acct.profile
	b.mu.RUnlock()
	writeJSON(w, http.StatusOK, profile)
}

func (b *Backend) preferences(w http.ResponseWriter, r *http.Request) {
	acct, ok := b.authorize(w, bearerToken(r))
	if !ok {
		return
	}

	var req models.UpdatePreferencesRequest
	if !b.decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	p := &acct.profile
	p.Name = req.Name
	p.Age = req.Age
	p.AcademicLevel = req.AcademicLevel
	p.Major = req.Major
	p.DyslexiaSupport = req.DyslexiaSupport
	p.LanguagePreference = req.LanguagePreference
	p.LearningStyles = nonNil(req.LearningStyles)
	p.Metadata = nonNil(req.Metadata)
	profile := *p
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, profile)
}

// videoPart summarizes the uploaded file without buffering it.
type videoPart struct {
	filename    string
	contentType string
	detected    string
	size        int64
}

func (b *Backend) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, b.maxUpload)

	mr, err := r.MultipartReader()
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Expected multipart form data")
		return
	}

	fields := map[string]string{}
	var video *videoPart
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			b.uploadError(w, err)
			return
		}

		name := part.FormName()
		if name == "video" {
			video, err = readVideo(part)
		} else {
			var data []byte
			data, err = io.ReadAll(io.LimitReader(part, 64<<10))
			fields[name] = string(data)
		}
		part.Close()
		if err != nil {
			b.uploadError(w, err)
			return
		}
	}

	token := bearerToken(r)
	if token == "" {
		token = fields["auth_token"]
	}
	if _, ok := b.authorize(w, token); !ok {
		return
	}

	if video == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []models.ErrorDetail{{Loc: []any{"body", "video"}, Msg: "field required", Type: "value_error.missing"}},
		})
		return
	}
	if !isVideo(video.detected) && !isVideo(video.contentType) {
		writeDetail(w, http.StatusBadRequest, DetailInvalidFileType)
		return
	}

	body, err := personalize(b.result, video.filename, fields["user_background"], fields["subject_preference"])
	if err != nil {
		b.logger.Error("failed to build result", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	b.logger.Info("video processed", "filename", video.filename, "size", video.size, "type", video.detected)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (b *Backend) uploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeDetail(w, http.StatusRequestEntityTooLarge, DetailFileTooLarge)
		return
	}
	writeDetail(w, http.StatusBadRequest, "Malformed multipart body")
}

func readVideo(part *multipart.Part) (*videoPart, error) {
	v := &videoPart{
		filename:    part.FileName(),
		contentType: part.Header.Get("Content-Type"),
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(part, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	v.detected = mimetype.Detect(head[:n]).String()

	rest, err := io.Copy(io.Discard, part)
	if err != nil {
		return nil, err
	}
	v.size = int64(n) + rest
	return v, nil
}

func isVideo(contentType string) bool {
	return strings.HasPrefix(contentType, "video/")
}

// personalize fills user_context of the canned result with the upload form fields.
func personalize(result []byte, filename, background, subject string) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(result, &doc); err != nil {
		return nil, fmt.Errorf("invalid canned result: %w", err)
	}
	doc["user_context"] = map[string]any{
		"background":         background,
		"subject_preference": subject,
		"filename":           filename,
	}
	return json.Marshal(doc)
}

// authorize resolves token to an account, writing 401 when it cannot.
func (b *Backend) authorize(w http.ResponseWriter, token string) (*account, bool) {
	if token == "" {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return b.secret, nil
	})
	if err != nil {
		b.logger.Debug("rejected token", "error", err)
		writeDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return nil, false
	}

	b.mu.RLock()
	acct, ok := b.users[c.Username]
	b.mu.RUnlock()
	if !ok {
		writeDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return nil, false
	}
	return acct, true
}

func (b *Backend) writeAuth(w http.ResponseWriter, profile models.UserProfile) {
	token, err := b.Token(profile.Username)
	if err != nil {
		b.logger.Error("failed to sign token", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: token, TokenType: "bearer", User: profile})
}

// decode reads a JSON body into v and validates it, writing 400/422 on failure.
func (b *Backend) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := b.validate.Struct(v); err != nil {
		writeValidation(w, err)
		return false
	}
	return true
}

type healthHandler struct{}

func (healthHandler) Routes() []string { return []string{"GET /health"} }

func (healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy"})
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeValidation reports validator failures as a 422 detail list.
func writeValidation(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	details := make([]models.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		msg := "invalid value"
		switch fe.Tag() {
		case "required":
			msg = "field required"
		case "gte", "lte":
			msg = fmt.Sprintf("%s must be between 0 and 150", fe.Field())
		}
		details = append(details, models.ErrorDetail{
			Loc:  []any{"body", fe.Field()},
			Msg:  msg,
			Type: "value_error." + fe.Tag(),
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": details})
}
