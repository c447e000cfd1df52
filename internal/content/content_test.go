package content

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/surf/internal/models"
)

const fullResult = `{
	"status": "success",
	"content_generation": {
		"content": {
			"explanation": {"content": {"main_explanation": "Forces cause acceleration.", "key_concepts": [{"concept": "F=ma"}]}},
			"summary": {"content": {"executive_summary": "Newton's laws"}},
			"quiz_generation": {"content": {"questions": [{"id": 1, "type": "true_false", "question": "Is F=ma?", "correct_answer": true}]}},
			"visualization": {"content": null},
			"application": {"status": "failed"}
		}
	}
}`

func TestSectionPath(t *testing.T) {
	tests := []struct {
		section Section
		want    string
	}{
		{Explanation, "content_generation.content.explanation.content"},
		{Animation, "content_generation.content.animation_config.content"},
		{Code, "content_generation.content.code_equation.content"},
		{Visualization, "content_generation.content.visualization.content"},
		{Application, "content_generation.content.application.content"},
		{Summary, "content_generation.content.summary.content"},
		{Quiz, "content_generation.content.quiz_generation.content"},
		{Section("bogus"), ""},
	}

	for _, tt := range tests {
		if got := tt.section.Path(); got != tt.want {
			t.Errorf("%s.Path() = %q, want %q", tt.section, got, tt.want)
		}
	}
}

func TestParseSection(t *testing.T) {
	if s, err := ParseSection("quiz"); err != nil || s != Quiz {
		t.Errorf("ParseSection(quiz) = %v, %v", s, err)
	}
	if _, err := ParseSection("quiz_generation"); err == nil {
		t.Error("expected error for server key instead of tab id")
	}
}

func TestLookup(t *testing.T) {
	raw := []byte(fullResult)

	t.Run("Present", func(t *testing.T) {
		o := Lookup(raw, Explanation)
		if !o.Present() {
			t.Fatal("expected explanation to be present")
		}
		if !strings.Contains(o.Raw(), "Forces cause acceleration.") {
			t.Errorf("unexpected raw %s", o.Raw())
		}
	})

	tests := []struct {
		name string
		raw  string
		sec  Section
	}{
		{name: "null leaf", raw: fullResult, sec: Visualization},
		{name: "missing content key", raw: fullResult, sec: Application},
		{name: "missing section", raw: fullResult, sec: Animation},
		{name: "no content_generation", raw: `{"status":"success"}`, sec: Summary},
		{name: "content_generation is null", raw: `{"content_generation":null}`, sec: Summary},
		{name: "content_generation is a string", raw: `{"content_generation":"oops"}`, sec: Summary},
		{name: "invalid JSON", raw: `{"content_generation":`, sec: Summary},
		{name: "empty input", raw: ``, sec: Summary},
		{name: "unknown section", raw: fullResult, sec: Section("bogus")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if o := Lookup([]byte(tt.raw), tt.sec); o.Present() {
				t.Errorf("expected absent, got %s", o.Raw())
			}
		})
	}
}

func TestDecode(t *testing.T) {
	raw := []byte(fullResult)

	t.Run("Typed Section", func(t *testing.T) {
		q, ok := Decode[models.Quiz](Lookup(raw, Quiz))
		if !ok {
			t.Fatal("expected quiz to decode")
		}
		if len(q.Questions) != 1 || q.Questions[0].Question != "Is F=ma?" {
			t.Errorf("unexpected quiz %+v", q)
		}
	})

	t.Run("Absent", func(t *testing.T) {
		if _, ok := Decode[models.Summary](Absent); ok {
			t.Error("absent value should not decode")
		}
	})

	t.Run("Wrong Shape", func(t *testing.T) {
		o := LookupPath([]byte(`{"a":"text"}`), "a")
		if _, ok := Decode[models.Summary](o); ok {
			t.Error("string should not decode into a struct")
		}
	})
}

func TestExtract(t *testing.T) {
	c := Extract([]byte(fullResult))

	if c.Explanation == nil || c.Summary == nil || c.Quiz == nil {
		t.Error("expected present sections to decode")
	}
	if c.Animation != nil || c.Visualization != nil || c.Application != nil || c.Code != nil {
		t.Error("expected absent sections to be nil")
	}

	got := Available([]byte(fullResult))
	want := []Section{Explanation, Summary, Quiz}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRegistry(t *testing.T) {
	writeTitle := func(title string) Renderer {
		return RendererFunc{Name: title, Fn: func(w io.Writer, v Optional) error {
			if !v.Present() {
				_, err := io.WriteString(w, "empty "+title)
				return err
			}
			_, err := io.WriteString(w, title+": "+v.Raw())
			return err
		}}
	}

	r := NewRegistry()
	r.Register(Summary, writeTitle("Summary"))
	r.Register(Quiz, writeTitle("Quiz"))
	r.Register(Summary, writeTitle("Summary Cards"))

	t.Run("Tabs Keep Registration Order", func(t *testing.T) {
		tabs := r.Tabs()
		if len(tabs) != 2 {
			t.Fatalf("expected 2 tabs, got %d", len(tabs))
		}
		if tabs[0].Section != Summary || tabs[0].Title != "Summary Cards" || tabs[1].Section != Quiz {
			t.Errorf("unexpected tabs %+v", tabs)
		}
	})

	t.Run("Render Present", func(t *testing.T) {
		var buf bytes.Buffer
		if err := r.Render(&buf, []byte(fullResult), Summary); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(buf.String(), "Newton's laws") {
			t.Errorf("unexpected output %s", buf.String())
		}
	})

	t.Run("Render Absent", func(t *testing.T) {
		var buf bytes.Buffer
		if err := r.Render(&buf, []byte(`{}`), Quiz); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if buf.String() != "empty Quiz" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("Unregistered Section", func(t *testing.T) {
		if err := r.Render(io.Discard, []byte(fullResult), Animation); err == nil {
			t.Error("expected error for unregistered section")
		}
	})
}
