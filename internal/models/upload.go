package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UploadResult is the response of POST /api/process-video-complete.
//
// Only the fields the client reads directly are typed. Raw keeps the complete
// payload so that deeply nested generated content can be resolved lazily.
type UploadResult struct {
	Transcript        Transcript        `json:"transcript"`
	Concepts          Concepts          `json:"concepts"`
	UserContext       UserContext       `json:"user_context"`
	Status            string            `json:"status"`
	Pipeline          string            `json:"pipeline"`
	ProcessingSummary ProcessingSummary `json:"processing_summary"`

	Raw json.RawMessage `json:"-"`
}

// Transcript is the speech-to-text output for the uploaded video.
type Transcript struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Concepts is the free-text concept analysis of the transcript.
type Concepts struct {
	Analysis  string `json:"analysis"`
	WordCount int    `json:"word_count"`
	// EstimatedDuration is either seconds or free text such as "45 seconds".
	EstimatedDuration any `json:"estimated_duration"`
}

// UserContext echoes the personalization fields sent with the upload.
type UserContext struct {
	Background        string `json:"background"`
	SubjectPreference string `json:"subject_preference"`
	Filename          string `json:"filename"`
}

// ProcessingSummary reports which pipeline stages completed on the server.
type ProcessingSummary struct {
	TotalSteps               int  `json:"total_steps"`
	VideoProcessed           bool `json:"video_processed"`
	GeminiAnalysisComplete   bool `json:"gemini_analysis_complete"`
	AgentsExecuted           int  `json:"agents_executed"`
	LearningFormatsGenerated int  `json:"learning_formats_generated"`
}

// ParseUploadResult decodes data into an [UploadResult] and retains the raw bytes.
func ParseUploadResult(data []byte) (*UploadResult, error) {
	var r UploadResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode upload result: %w", err)
	}
	return &r, nil
}

// MarshalJSON returns the original payload when one was retained.
func (r UploadResult) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain UploadResult
	return json.Marshal(plain(r))
}

// UnmarshalJSON decodes the typed fields and keeps a copy of data in Raw.
func (r *UploadResult) UnmarshalJSON(data []byte) error {
	type plain UploadResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = UploadResult(p)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// UploadVideoRequest carries the file and the personalization fields of an upload.
type UploadVideoRequest struct {
	Path              string
	Filename          string
	ContentType       string
	UserBackground    string
	SubjectPreference string
}

// UserBackground derives the background field from a major: "<major>_student" or "general".
func UserBackground(major string) string {
	if strings.TrimSpace(major) == "" {
		return "general"
	}
	return major + "_student"
}

// SubjectPreference derives the subject field from a major, falling back to "general".
func SubjectPreference(major string) string {
	if strings.TrimSpace(major) == "" {
		return "general"
	}
	return major
}
