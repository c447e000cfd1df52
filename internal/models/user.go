package models

import "slices"

// UserProfile is the server-authoritative record of a user's identity and learning preferences.
type UserProfile struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Username           string   `json:"username"`
	Age                int      `json:"age"`
	AcademicLevel      string   `json:"academicLevel"`
	Major              string   `json:"major"`
	DyslexiaSupport    bool     `json:"dyslexiaSupport"`
	LanguagePreference string   `json:"languagePreference"`
	LearningStyles     []string `json:"learningStyles"`
	Metadata           []string `json:"metadata"`
	CreatedAt          string   `json:"created_at"`
}

// Preferences returns the mutable fields of the profile as an update request.
func (p *UserProfile) Preferences() UpdatePreferencesRequest {
	return UpdatePreferencesRequest{
		Name:               p.Name,
		Age:                p.Age,
		AcademicLevel:      p.AcademicLevel,
		Major:              p.Major,
		DyslexiaSupport:    p.DyslexiaSupport,
		LanguagePreference: p.LanguagePreference,
		LearningStyles:     slices.Clone(p.LearningStyles),
		Metadata:           slices.Clone(p.Metadata),
	}
}

// SigninRequest is the body of POST /api/auth/signin.
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Name               string   `json:"name" validate:"required"`
	Username           string   `json:"username" validate:"required"`
	Password           string   `json:"password" validate:"required"`
	ConfirmPassword    string   `json:"confirmPassword" validate:"eqfield=Password"`
	Age                int      `json:"age" validate:"gte=0,lte=150"`
	AcademicLevel      string   `json:"academicLevel" validate:"required"`
	Major              string   `json:"major"`
	DyslexiaSupport    bool     `json:"dyslexiaSupport"`
	LanguagePreference string   `json:"languagePreference" validate:"required"`
	LearningStyles     []string `json:"learningStyles"`
	Metadata           []string `json:"metadata"`
}

// UpdatePreferencesRequest is the body of PUT /api/user/preferences.
type UpdatePreferencesRequest struct {
	Name               string   `json:"name" validate:"required"`
	Age                int      `json:"age" validate:"gte=0,lte=150"`
	AcademicLevel      string   `json:"academicLevel"`
	Major              string   `json:"major"`
	DyslexiaSupport    bool     `json:"dyslexiaSupport"`
	LanguagePreference string   `json:"languagePreference"`
	LearningStyles     []string `json:"learningStyles"`
	Metadata           []string `json:"metadata"`
}

// AuthResponse is returned by signin and signup.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserProfile `json:"user"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorDetail is one entry of a structured API error body.
type ErrorDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// AcademicLevels lists the academic levels offered by the sign-up wizard.
var AcademicLevels = []string{
	"Elementary", "Middle School", "High School", "College", "Graduate", "Professional",
}

// Languages lists the language preferences offered by the sign-up wizard.
var Languages = []string{
	"English", "Spanish", "French", "German", "Italian", "Portuguese", "Russian",
	"Chinese (Mandarin)", "Japanese", "Korean", "Arabic", "Hindi", "Bengali",
	"Urdu", "Turkish", "Dutch", "Swedish", "Norwegian", "Polish", "Czech",
}

// LearningStyle is a selectable learning-style tag.
type LearningStyle struct {
	ID          string
	Label       string
	Description string
}

// LearningStyles lists the learning-style tags offered by the sign-up wizard.
var LearningStyles = []LearningStyle{
	{ID: "visual", Label: "Visual Learner", Description: "Prefer diagrams, charts, visual demonstrations"},
	{ID: "auditory", Label: "Auditory Learner", Description: "Prefer verbal explanations, discussions, audio content"},
	{ID: "kinesthetic", Label: "Kinesthetic Learner", Description: "Prefer interactive simulations, hands-on activities"},
	{ID: "reading", Label: "Reading/Writing Learner", Description: "Prefer text-based summaries, note-taking features"},
}
