package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUploadResult(t *testing.T) {
	payload := `{
		"transcript": {"text": "hello", "language": "en"},
		"concepts": {"analysis": "physics", "word_count": 12, "estimated_duration": "1 min"},
		"user_context": {"background": "physics_student", "subject_preference": "physics", "filename": "a.mp4"},
		"status": "success",
		"content_generation": {"content": {"summary": {"content": {"executive_summary": "short"}}}}
	}`

	t.Run("ParseUploadResult keeps raw payload", func(t *testing.T) {
		r, err := ParseUploadResult([]byte(payload))
		if err != nil {
			t.Fatalf("ParseUploadResult() error = %v", err)
		}

		if r.Transcript.Text != "hello" || r.Concepts.WordCount != 12 {
			t.Errorf("typed fields not decoded: %+v", r)
		}
		if r.UserContext.Filename != "a.mp4" {
			t.Errorf("expected filename a.mp4, got %s", r.UserContext.Filename)
		}
		if !strings.Contains(string(r.Raw), "content_generation") {
			t.Error("raw payload should retain untyped fields")
		}
	})

	t.Run("MarshalJSON returns retained payload", func(t *testing.T) {
		r, err := ParseUploadResult([]byte(payload))
		if err != nil {
			t.Fatalf("ParseUploadResult() error = %v", err)
		}

		out, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !strings.Contains(string(out), "executive_summary") {
			t.Errorf("expected nested content to survive, got %s", out)
		}
	})

	t.Run("MarshalJSON without raw encodes typed fields", func(t *testing.T) {
		out, err := json.Marshal(UploadResult{Status: "success"})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !strings.Contains(string(out), `"status":"success"`) {
			t.Errorf("unexpected output %s", out)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := ParseUploadResult([]byte("{")); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestPersonalizationFields(t *testing.T) {
	tests := []struct {
		major      string
		background string
		subject    string
	}{
		{major: "physics", background: "physics_student", subject: "physics"},
		{major: "", background: "general", subject: "general"},
		{major: "  ", background: "general", subject: "general"},
	}

	for _, tt := range tests {
		if got := UserBackground(tt.major); got != tt.background {
			t.Errorf("UserBackground(%q) = %q, want %q", tt.major, got, tt.background)
		}
		if got := SubjectPreference(tt.major); got != tt.subject {
			t.Errorf("SubjectPreference(%q) = %q, want %q", tt.major, got, tt.subject)
		}
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single string", in: `"a metaphor"`, want: []string{"a metaphor"}},
		{name: "array", in: `["a", "b"]`, want: []string{"a", "b"}},
		{name: "mixed array", in: `["a", 2, null]`, want: []string{"a", "2"}},
		{name: "null", in: `null`, want: nil},
		{name: "empty string", in: `""`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(l) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, l)
			}
			for i := range l {
				if l[i] != tt.want[i] {
					t.Errorf("index %d: expected %q, got %q", i, tt.want[i], l[i])
				}
			}
		})
	}

	t.Run("object is rejected", func(t *testing.T) {
		var l StringList
		if err := json.Unmarshal([]byte(`{"a":1}`), &l); err == nil {
			t.Error("expected error for object input")
		}
	})
}

func TestUpload(t *testing.T) {
	t.Run("lifecycle", func(t *testing.T) {
		u := NewUpload("ada", "lecture.mp4", "video/mp4", 1024)
		if u.Status() != UploadPending {
			t.Fatalf("expected pending, got %s", u.Status())
		}
		if err := u.Validate(); err != nil {
			t.Fatalf("pending upload should validate: %v", err)
		}

		u.Complete(json.RawMessage(`{"status":"success"}`))
		if u.Status() != UploadCompleted || string(u.Result()) != `{"status":"success"}` {
			t.Errorf("unexpected state after Complete: %s %s", u.Status(), u.Result())
		}

		u.Fail("Failed to upload video")
		if u.Status() != UploadFailed || u.ErrorMessage() != "Failed to upload video" {
			t.Errorf("unexpected state after Fail: %s %s", u.Status(), u.ErrorMessage())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := NewUpload("ada", "", "video/mp4", 1).Validate(); err == nil {
			t.Error("expected error for missing filename")
		}

		u := NewUpload("ada", "a.mp4", "video/mp4", 1)
		u.SetStatus(UploadCompleted)
		if err := u.Validate(); err == nil {
			t.Error("expected error for completed upload without result")
		}

		u.SetStatus("bogus")
		if err := u.Validate(); err == nil {
			t.Error("expected error for unknown status")
		}
	})
}

func TestQuizAttempt(t *testing.T) {
	if err := NewQuizAttempt("u1", 2, 3, nil).Validate(); err != nil {
		t.Errorf("valid attempt rejected: %v", err)
	}
	if err := NewQuizAttempt("", 0, 0, nil).Validate(); err == nil {
		t.Error("expected error for missing upload id")
	}
	if err := NewQuizAttempt("u1", 4, 3, nil).Validate(); err == nil {
		t.Error("expected error for score above total")
	}
}

func TestUserProfilePreferences(t *testing.T) {
	p := &UserProfile{
		ID: "1", Name: "Ada", Username: "ada", Age: 20, AcademicLevel: "College",
		Major: "Physics", LanguagePreference: "English", LearningStyles: []string{"visual"},
	}

	prefs := p.Preferences()
	if prefs.Name != p.Name || prefs.Age != p.Age || prefs.Major != p.Major {
		t.Errorf("mutable fields not copied: %+v", prefs)
	}

	prefs.LearningStyles[0] = "auditory"
	if p.LearningStyles[0] != "visual" {
		t.Error("Preferences should copy slices")
	}
}
