package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/repositories"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/desertthunder/surf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Upload validates and uploads the given videos, printing progress as it goes.
//
// One path prints the overview of the result; several paths run a bulk upload.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: path to a video file", shared.ErrMissingArgument)
	}
	if err := r.requireSession(); err != nil {
		return err
	}

	var history tasks.HistoryRecorder
	if !cmd.Bool("no-history") {
		db, err := r.openHistory()
		if err != nil {
			r.logger.Warn("upload history disabled", "error", err)
		} else {
			defer db.Close()
			history = repositories.NewUploadRepository(db)
		}
	}
	workflow := r.workflow(history, nil)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.printProgress(progressCh, len(paths) > 1)
	}()

	if len(paths) > 1 {
		result, err := workflow.BulkUpload(ctx, progressCh, paths, tasks.BulkUploadOpts{
			NumWorkers:   int(cmd.Int("workers")),
			ManifestPath: cmd.String("manifest"),
		})
		close(progressCh)
		wg.Wait()
		if result != nil {
			r.writeBulkSummary(result, cmd.Bool("json"))
		}
		return err
	}

	result, err := workflow.Upload(ctx, paths[0], tasks.Callbacks{}, progressCh)
	close(progressCh)
	wg.Wait()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	r.writePlain("\n")
	return r.writeBytes(formatter.RenderOverview(result))
}

// printProgress writes one line per phase change. Upload percentages are printed every 10%.
func (r *Runner) printProgress(ch <-chan tasks.ProgressUpdate, bulk bool) {
	lastPct := -1
	for update := range ch {
		if bulk {
			if update.Phase == tasks.Complete || update.Phase == tasks.Failed {
				r.writePlain("%s\n", update.Message)
			}
			continue
		}

		switch update.Phase {
		case tasks.Validate:
			r.writePlain("🔍 %s\n", update.Message)
		case tasks.Upload:
			if update.Step/10 != lastPct/10 || update.Step == 100 {
				r.writePlain("📤 %s\n", update.Message)
			}
			lastPct = update.Step
		case tasks.Process:
			r.writePlain("⚙️  %s\n", update.Message)
		case tasks.Complete:
			r.writePlain("✓ %s\n", update.Message)
		case tasks.Failed:
			r.writePlain("✗ %s\n", update.Message)
		}
	}
}

func (r *Runner) writeBulkSummary(result *tasks.BulkUploadResult, asJSON bool) {
	if asJSON {
		r.writeJSON(result, true)
		return
	}

	r.writePlain("\n")
	r.writePlainHeader("Bulk Upload Complete")
	r.writePlain("Uploaded: %d/%d\n", result.Successful, result.Total)
	r.writePlain("Duration: %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	if result.Failed > 0 {
		r.writePlain("\nFailed uploads:\n")
		for _, item := range result.Items {
			if !item.Success {
				r.writePlain("  - %s: %s\n", item.Filename, item.Error)
			}
		}
	}
	if result.ManifestPath != "" {
		r.writePlain("\nManifest written to %s\n", result.ManifestPath)
	}
}
