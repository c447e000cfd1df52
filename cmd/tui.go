package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/repositories"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/desertthunder/surf/internal/tasks"
	"github.com/desertthunder/surf/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive sign-in, sign-up and dashboard screens.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Logging.File
	if logPath == "" {
		logPath = shared.ExpandHome("~/.surf/surf-tui.log")
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Logging.Level)
	r.SetLogger(fileLogger)

	var history tasks.HistoryRecorder
	if db, err := r.openHistory(); err != nil {
		r.logger.Warn("upload history disabled", "error", err)
	} else {
		defer db.Close()
		history = repositories.NewUploadRepository(db)
	}

	routes := ui.NewRouteQueue()
	model := ui.NewModel(ctx, ui.Options{
		Auth:      r.client,
		Profile:   r.client,
		Uploader:  r.workflow(history, routes),
		Store:     r.store,
		Routes:    routes,
		Logger:    r.logger,
		ExportDir: formatter.DefaultExportDir,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
