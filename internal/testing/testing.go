// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

// SampleResult is a complete upload result as returned by the processing endpoint.
const SampleResult = `{
	"status": "success",
	"pipeline": "complete",
	"transcript": {"text": "Today we look at Newton's second law.", "language": "en"},
	"concepts": {"analysis": "Force, mass and acceleration.", "word_count": 1280, "estimated_duration": "45 seconds"},
	"user_context": {"background": "physics_student", "subject_preference": "physics", "filename": "newton.mp4"},
	"processing_summary": {"total_steps": 4, "video_processed": true, "gemini_analysis_complete": true, "agents_executed": 7, "learning_formats_generated": 7},
	"content_generation": {
		"content": {
			"explanation": {"content": {
				"main_explanation": "Force equals mass times acceleration.",
				"key_concepts": [{"concept": "Inertia", "explanation": "Resistance to change in motion", "analogy": "A heavy cart"}],
				"common_misconceptions": ["Heavier objects fall faster"],
				"next_steps": "Study momentum."
			}},
			"animation_config": {"content": {
				"animation_description": "A block accelerating on ice.",
				"scenes": [{"id": 1}, {"id": 2}],
				"focus_equations": "F = ma",
				"duration_seconds": 8,
				"javascript_code": "const a = 1;\nconst b = 2;"
			}},
			"code_equation": {"content": {
				"equations": [{"formula": "F = m * a", "explanation": "Newton's second law", "variables": {"m": "mass", "a": "acceleration"}}],
				"code_examples": [{"title": "Compute force", "language": "python", "code": "print(2 * 9.8)", "output": "19.6"}],
				"practical_applications": ["Vehicle safety"]
			}},
			"visualization": {"content": {
				"diagrams": [{"type": "flowchart", "title": "Force Diagram", "description": "Forces on a block", "svg_code": "<svg></svg>"}],
				"chart_configs": [{"chart_id": "c1", "chart_type": "line", "title": "Velocity over time", "data": {"points": [{"x": 0, "y": 0}, {"x": 1, "y": 2}]}, "axes": {"x_axis": "time", "x_unit": "s", "y_axis": "velocity"}}],
				"visual_metaphors": ["A tug of war"]
			}},
			"application": {"content": {
				"real_world_applications": [{"application": "Seatbelts", "industry": "Automotive", "description": "Reduce deceleration forces"}],
				"case_studies": [{"title": "Crash tests", "outcome": "Fewer injuries"}],
				"career_connections": ["Mechanical engineer"]
			}},
			"summary": {"content": {
				"executive_summary": "Newton's second law links force and motion.",
				"key_takeaways": [{"concept": "F=ma", "summary": "Force scales with mass"}],
				"learning_cards": [{"front": "What is F?", "back": "Force", "category": "definitions", "difficulty": "easy"}],
				"review_checklist": ["Define inertia"]
			}},
			"quiz_generation": {"content": {
				"quiz_metadata": {"title": "Newton Quiz"},
				"questions": [
					{"id": 1, "type": "multiple_choice", "question": "What does F stand for?", "options": ["A) Force", "B) Flux"], "correct_answer": "A"},
					{"id": 2, "type": "true_false", "question": "Mass resists acceleration.", "correct_answer": "True"},
					{"id": 3, "type": "short_answer", "question": "Unit of force?", "correct_answer": "Newton"}
				]
			}}
		}
	}
}`

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// NewResponse builds an [http.Response] with a JSON body for use with [MockRoundTripper]
func NewResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

// MustWriteFile writes data to name inside dir and returns the full path
func MustWriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
