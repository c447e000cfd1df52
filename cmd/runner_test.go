package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/server"
	"github.com/desertthunder/surf/internal/session"
	"github.com/desertthunder/surf/internal/shared"
	tu "github.com/desertthunder/surf/internal/testing"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"
)

// mp4Header is the start of an ISO base media file, enough for content sniffing.
var mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

func newTestBackend(t *testing.T) (*server.Backend, *httptest.Server) {
	t.Helper()
	b := server.NewBackend(server.BackendOpts{
		Result:     []byte(tu.SampleResult),
		Logger:     shared.NewLogger(io.Discard),
		BcryptCost: bcrypt.MinCost,
	})
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

func newTestRunner(t *testing.T, baseURL, input string) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.API.BaseURL = baseURL
	config.Database.Path = filepath.Join(t.TempDir(), "surf.db")
	config.Normalize()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  session.NewMemoryStore(),
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		Input:  strings.NewReader(input),
	})
	return runner, output
}

// run executes args against the full command tree, as main does.
func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:      "surf",
		Commands:  r.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"surf"}, args...))
}

func seedAccount(t *testing.T, b *server.Backend) {
	t.Helper()
	if _, err := b.Seed(models.SignupRequest{
		Name:               "Ada Lovelace",
		Username:           "ada",
		Password:           "secret",
		ConfirmPassword:    "secret",
		Age:                28,
		AcademicLevel:      "College",
		Major:              "Physics",
		LanguagePreference: "English",
		LearningStyles:     []string{"visual"},
	}); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			store := session.NewMemoryStore()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Store:      store,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.client.Store() != store {
				t.Error("expected client to share the store")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Fatal("expected default config to be set")
			}
			if runner.config.API.BaseURL != shared.DefaultBaseURL {
				t.Errorf("expected base url %s, got %s", shared.DefaultBaseURL, runner.config.API.BaseURL)
			}
			if runner.client.BaseURL() != shared.DefaultBaseURL {
				t.Errorf("expected client base url %s, got %s", shared.DefaultBaseURL, runner.client.BaseURL())
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.RequestTimeout = "90s"
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient == nil {
				t.Fatal("expected default httpClient to be set")
			}
			if runner.httpClient.Timeout != 90*time.Second {
				t.Errorf("expected 90s timeout, got %v", runner.httpClient.Timeout)
			}
		})

		t.Run("with reader input has no terminal", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: strings.NewReader("")})

			if runner.stdin != nil {
				t.Error("expected stdin to be nil for a non-file reader")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"auth", "profile", "upload", "content", "history", "setup", "dev", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("expected command %q at index %d, got %q", want[i], i, cmd.Name)
			}
		}
	})
}

func TestInputParsing(t *testing.T) {
	t.Run("pickOption", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  string
			ok    bool
		}{
			{name: "index", input: "2", want: models.AcademicLevels[1], ok: true},
			{name: "name ignores case", input: strings.ToUpper(models.AcademicLevels[0]), want: models.AcademicLevels[0], ok: true},
			{name: "index out of range", input: "99", ok: false},
			{name: "zero", input: "0", ok: false},
			{name: "unknown name", input: "Kindergarten", ok: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, ok := pickOption(models.AcademicLevels, tt.input)
				if ok != tt.ok || got != tt.want {
					t.Errorf("pickOption(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
				}
			})
		}
	})

	t.Run("parseLearningStyles", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  []string
			ok    bool
		}{
			{name: "empty", input: "", want: nil, ok: true},
			{name: "numbers", input: "1, 3", want: []string{"visual", "kinesthetic"}, ok: true},
			{name: "ids", input: "Reading,auditory", want: []string{"reading", "auditory"}, ok: true},
			{name: "blank parts skipped", input: "1,,", want: []string{"visual"}, ok: true},
			{name: "out of range", input: "1,9", ok: false},
			{name: "unknown id", input: "osmosis", ok: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, ok := parseLearningStyles(tt.input)
				if ok != tt.ok {
					t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
				}
				if strings.Join(got, ",") != strings.Join(tt.want, ",") {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			})
		}
	})

	t.Run("parseSequence", func(t *testing.T) {
		tests := []struct {
			input string
			want  int
			ok    bool
		}{
			{input: "#12", want: 12, ok: true},
			{input: "3", want: 3, ok: true},
			{input: "#0", ok: false},
			{input: "-1", ok: false},
			{input: "c0ffee", ok: false},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				got, ok := parseSequence(tt.input)
				if got != tt.want || ok != tt.ok {
					t.Errorf("parseSequence(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
				}
			})
		}
	})

	t.Run("sameJSON", func(t *testing.T) {
		if !sameJSON([]byte(`{"a": [1, 2]}`), []byte(`{"a":[1,2]}`)) {
			t.Error("expected whitespace differences to be ignored")
		}
		if sameJSON([]byte(`{"a":1}`), []byte(`{"a":2}`)) {
			t.Error("expected different values to differ")
		}
		if sameJSON([]byte(`{`), []byte(`{`)) {
			t.Error("expected invalid JSON to never match")
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Signin With Flags", func(t *testing.T) {
		b, srv := newTestBackend(t)
		seedAccount(t, b)
		runner, output := newTestRunner(t, srv.URL, "")

		if err := run(runner, "auth", "signin", "-u", "ada", "-p", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !runner.store.Authenticated() {
			t.Error("expected session to be stored")
		}
		if !strings.Contains(output.String(), "Signed in as Ada Lovelace") {
			t.Errorf("expected greeting, got %q", output.String())
		}
	})

	t.Run("Signin Prompts For Missing Values", func(t *testing.T) {
		b, srv := newTestBackend(t)
		seedAccount(t, b)
		runner, output := newTestRunner(t, srv.URL, "ada\nsecret\n")

		if err := run(runner, "auth", "signin"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Username: ") || !strings.Contains(output.String(), "Password: ") {
			t.Errorf("expected prompts, got %q", output.String())
		}
	})

	t.Run("Signin Wrong Password", func(t *testing.T) {
		b, srv := newTestBackend(t)
		seedAccount(t, b)
		runner, _ := newTestRunner(t, srv.URL, "")

		if err := run(runner, "auth", "signin", "-u", "ada", "-p", "nope"); err == nil {
			t.Fatal("expected error for wrong password")
		}
		if runner.store.Authenticated() {
			t.Error("expected no session after failed signin")
		}
	})

	t.Run("Signin Without Input", func(t *testing.T) {
		_, srv := newTestBackend(t)
		runner, _ := newTestRunner(t, srv.URL, "")

		err := run(runner, "auth", "signin")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Signup Wizard", func(t *testing.T) {
		_, srv := newTestBackend(t)
		input := strings.Join([]string{
			"Grace Hopper", "grace",
			"one", "two", // mismatch, asked again
			"cobol", "cobol",
			"", // default age
			"2", "Mathematics",
			"y", "1",
			"1,reading",
		}, "\n") + "\n"
		runner, output := newTestRunner(t, srv.URL, input)

		if err := run(runner, "auth", "signup"); err != nil {
			t.Fatalf("expected no error, got %v\n%s", err, output.String())
		}

		out := output.String()
		for _, want := range []string{"Step 1 of 3", "Step 3 of 3", "Account created"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Count(out, "Confirm password") != 2 {
			t.Errorf("expected password to be asked twice, got %q", out)
		}

		signin, _ := newTestRunner(t, srv.URL, "")
		if err := run(signin, "auth", "signin", "-u", "grace", "-p", "cobol"); err != nil {
			t.Fatalf("expected new account to sign in, got %v", err)
		}
		profile := signin.store.Profile()
		if profile == nil || profile.Age != 18 || profile.AcademicLevel != models.AcademicLevels[1] || !profile.DyslexiaSupport {
			t.Errorf("unexpected profile %+v", profile)
		}
		if strings.Join(profile.LearningStyles, ",") != "visual,reading" {
			t.Errorf("expected visual,reading, got %v", profile.LearningStyles)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		b, srv := newTestBackend(t)
		seedAccount(t, b)
		runner, _ := newTestRunner(t, srv.URL, "")

		if err := run(runner, "auth", "signin", "-u", "ada", "-p", "secret"); err != nil {
			t.Fatalf("signin failed: %v", err)
		}
		if err := run(runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.store.Authenticated() {
			t.Error("expected session to be cleared")
		}
	})

	t.Run("Status", func(t *testing.T) {
		t.Run("healthy backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Config: config,
				Store:  session.NewMemoryStore(),
				Logger: shared.NewLogger(io.Discard),
				Output: output,
				HTTPClient: &http.Client{
					Transport: tu.NewMockRoundTripper(tu.NewResponse(http.StatusOK, `{"status":"healthy"}`), nil),
				},
			})

			if err := run(runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Backend is healthy") {
				t.Errorf("expected healthy status, got %q", output.String())
			}
			if !strings.Contains(output.String(), "Not signed in") {
				t.Errorf("expected signed out session, got %q", output.String())
			}
		})

		t.Run("unavailable backend", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Store:      session.NewMemoryStore(),
				Logger:     shared.NewLogger(io.Discard),
				Output:     output,
				HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
			})

			err := run(runner, "auth", "status")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			if !strings.Contains(output.String(), "Backend unavailable") {
				t.Errorf("expected unavailable message, got %q", output.String())
			}
		})
	})
}

func TestProfileCommands(t *testing.T) {
	t.Run("Requires Session", func(t *testing.T) {
		_, srv := newTestBackend(t)
		runner, _ := newTestRunner(t, srv.URL, "")

		for _, args := range [][]string{{"profile", "show"}, {"profile", "update", "--major", "Art"}} {
			if err := run(runner, args...); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("%v: expected ErrNotAuthenticated, got %v", args, err)
			}
		}
	})

	t.Run("Show And Update", func(t *testing.T) {
		b, srv := newTestBackend(t)
		seedAccount(t, b)
		runner, output := newTestRunner(t, srv.URL, "")

		if err := run(runner, "auth", "signin", "-u", "ada", "-p", "secret"); err != nil {
			t.Fatalf("signin failed: %v", err)
		}

		output.Reset()
		if err := run(runner, "profile", "show"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Ada Lovelace") {
			t.Errorf("expected profile, got %q", output.String())
		}

		output.Reset()
		err := run(runner, "profile", "update", "--major", "Chemistry", "--learning-style", "2", "--dyslexia", "--json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"major": "Chemistry"`) {
			t.Errorf("expected updated major, got %q", output.String())
		}

		profile := runner.store.Profile()
		if profile.Major != "Chemistry" || !profile.DyslexiaSupport || profile.Name != "Ada Lovelace" {
			t.Errorf("unexpected stored profile %+v", profile)
		}
		if strings.Join(profile.LearningStyles, ",") != "auditory" {
			t.Errorf("expected auditory, got %v", profile.LearningStyles)
		}
	})

	t.Run("Update Rejects Unknown Values", func(t *testing.T) {
		b, srv := newTestBackend(t)
		seedAccount(t, b)
		runner, _ := newTestRunner(t, srv.URL, "")

		if err := run(runner, "auth", "signin", "-u", "ada", "-p", "secret"); err != nil {
			t.Fatalf("signin failed: %v", err)
		}
		for _, args := range [][]string{
			{"--academic-level", "Kindergarten"},
			{"--language", "Klingon"},
			{"--learning-style", "osmosis"},
		} {
			err := run(runner, append([]string{"profile", "update"}, args...)...)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("%v: expected ErrInvalidArgument, got %v", args, err)
			}
		}
	})
}

func TestUploadWorkflow(t *testing.T) {
	b, srv := newTestBackend(t)
	seedAccount(t, b)
	runner, output := newTestRunner(t, srv.URL, "a\ntrue\nnewton\n")

	video := tu.MustWriteFile(t, t.TempDir(), "newton.mp4", append(append([]byte{}, mp4Header...), make([]byte, 2048)...))

	t.Run("Requires Session", func(t *testing.T) {
		if err := run(runner, "upload", video); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Content Without Result", func(t *testing.T) {
		if err := run(runner, "content", "show"); !errors.Is(err, shared.ErrNoUploadResult) {
			t.Errorf("expected ErrNoUploadResult, got %v", err)
		}
	})

	if err := run(runner, "auth", "signin", "-u", "ada", "-p", "secret"); err != nil {
		t.Fatalf("signin failed: %v", err)
	}

	t.Run("Upload", func(t *testing.T) {
		output.Reset()
		if err := run(runner, "upload", video); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		for _, want := range []string{"🔍", "✓", "## Overview", "File: newton.mp4"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
		if len(runner.store.LastResult()) == 0 {
			t.Error("expected last result to be stored")
		}
	})

	t.Run("Upload Missing Path", func(t *testing.T) {
		if err := run(runner, "upload"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Content Show", func(t *testing.T) {
		output.Reset()
		if err := run(runner, "content", "show", "--section", "quiz"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "What does F stand for?") {
			t.Errorf("expected quiz section, got %q", output.String())
		}
		if strings.Contains(output.String(), "## Overview") {
			t.Error("expected overview to be skipped when sections are given")
		}

		if err := run(runner, "content", "show", "--section", "trivia"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Content Show From History", func(t *testing.T) {
		output.Reset()
		if err := run(runner, "content", "show", "--upload", "#1", "--section", "summary"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Newton's second law links force and motion.") {
			t.Errorf("expected summary, got %q", output.String())
		}
	})

	t.Run("Content Export", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")
		output.Reset()
		if err := run(runner, "content", "export", "-o", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertDirExists(t, dir)
		readme := filepath.Join(dir, "README.md")
		tu.AssertFileExists(t, readme)
		tu.AssertFileExists(t, filepath.Join(dir, "result.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "flashcards.csv"))
		if !strings.Contains(tu.MustReadFile(t, readme), "Force equals mass times acceleration.") {
			t.Error("expected explanation in README.md")
		}
		if !strings.Contains(output.String(), "Exported to") {
			t.Errorf("expected export message, got %q", output.String())
		}
	})

	t.Run("Content Quiz", func(t *testing.T) {
		output.Reset()
		if err := run(runner, "content", "quiz"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Score: 2/3 (67%) Good job!") {
			t.Errorf("expected score line, got %q", output.String())
		}
	})

	t.Run("History", func(t *testing.T) {
		output.Reset()
		if err := run(runner, "history", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "newton.mp4") || !strings.Contains(output.String(), "#1") {
			t.Errorf("expected upload in history, got %q", output.String())
		}

		output.Reset()
		if err := run(runner, "history", "show", "#1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Quiz attempts:") || !strings.Contains(output.String(), "2/3") {
			t.Errorf("expected recorded quiz attempt, got %q", output.String())
		}

		if err := run(runner, "history", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}

		output.Reset()
		if err := run(runner, "history", "delete", "#1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		output.Reset()
		if err := run(runner, "history", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No uploads recorded yet") {
			t.Errorf("expected empty history, got %q", output.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("Config", func(t *testing.T) {
		wd := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		t.Cleanup(func() { tu.MustChdir(t, wd) })

		runner, output := newTestRunner(t, "", "")
		if err := run(runner, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, "config.toml")
		if !strings.Contains(output.String(), "Configuration written to config.toml") {
			t.Errorf("expected confirmation, got %q", output.String())
		}

		if err := run(runner, "setup", "config"); err == nil {
			t.Error("expected error when the file already exists")
		}

		config, err := shared.LoadConfig("config.toml")
		if err != nil {
			t.Fatalf("expected written config to load, got %v", err)
		}
		if config.API.APIKey != shared.DefaultAPIKey {
			t.Errorf("expected default api key, got %q", config.API.APIKey)
		}
	})

	t.Run("Database", func(t *testing.T) {
		runner, output := newTestRunner(t, "", "")

		if err := run(runner, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, runner.config.Database.Path)

		output.Reset()
		if err := run(runner, "setup", "database", "--status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "0001 create_quiz_attempts") || strings.Contains(output.String(), "pending") {
			t.Errorf("expected applied migrations, got %q", output.String())
		}

		output.Reset()
		if err := run(runner, "setup", "database", "--rollback"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Rolled back 0001 create_quiz_attempts") {
			t.Errorf("expected quiz attempts to roll back first, got %q", output.String())
		}
		output.Reset()
		if err := run(runner, "setup", "database", "--status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "0001 create_quiz_attempts    ✗ pending") || !strings.Contains(output.String(), "0000 create_uploads          ✓ applied") {
			t.Errorf("expected last migration to be pending, got %q", output.String())
		}
	})
}
