package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/services"
	"github.com/desertthunder/surf/internal/session"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/desertthunder/surf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	store      session.Store
	client     *services.Client
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	stdin      *os.File
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	// Input is read for prompts. Password prompts hide input only when Input is a terminal.
	Input io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
		opts.Config.Normalize()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.Timeout()}
	}
	if opts.Store == nil {
		opts.Store = session.NewFileStore(opts.Config.Session.Path, opts.Logger)
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL:    opts.Config.API.BaseURL,
		APIKey:     opts.Config.API.APIKey,
		HTTPClient: opts.HTTPClient,
		Store:      opts.Store,
		Logger:     opts.Logger,
	})

	stdin, _ := opts.Input.(*os.File)

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		client:     client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		stdin:      stdin,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, profileCommand, uploadCommand, contentCommand, historyCommand, setupCommand, devCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger of the runner and its API client.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.client = services.NewClient(services.ClientOpts{
		BaseURL:    r.config.API.BaseURL,
		APIKey:     r.config.API.APIKey,
		HTTPClient: r.httpClient,
		Store:      r.store,
		Logger:     logger,
	})
}

// openHistory opens the upload history database, running pending migrations.
func (r *Runner) openHistory() (*sql.DB, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// workflow builds the upload workflow. history may be nil.
func (r *Runner) workflow(history tasks.HistoryRecorder, nav shared.Navigator) *tasks.UploadWorkflow {
	if nav == nil {
		nav = shared.NavigatorFunc(func(route shared.Route) {
			if route == shared.RouteSignin {
				r.logger.Warn("session expired, run 'surf auth signin'")
			}
		})
	}
	return tasks.NewUploadWorkflow(tasks.WorkflowOpts{
		Uploader:  r.client,
		Store:     r.store,
		History:   history,
		Navigator: nav,
		Logger:    r.logger,
	})
}

// requireSession fails with [shared.ErrNotAuthenticated] when no user is signed in.
func (r *Runner) requireSession() error {
	if !r.store.Authenticated() {
		return fmt.Errorf("%w: run 'surf auth signin' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
