package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/repositories"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// historyEntry is the JSON form of a recorded upload.
type historyEntry struct {
	ID          string              `json:"id"`
	Sequence    int                 `json:"sequence"`
	Username    string              `json:"username"`
	Filename    string              `json:"filename"`
	ContentType string              `json:"content_type"`
	SizeBytes   int64               `json:"size_bytes"`
	Status      models.UploadStatus `json:"status"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   string              `json:"created_at"`
}

func newHistoryEntry(u *models.Upload) historyEntry {
	return historyEntry{
		ID:          u.ID(),
		Sequence:    u.Sequence(),
		Username:    u.Username(),
		Filename:    u.Filename(),
		ContentType: u.ContentType(),
		SizeBytes:   u.SizeBytes(),
		Status:      u.Status(),
		Error:       u.ErrorMessage(),
		CreatedAt:   u.CreatedAt().Format(time.RFC3339),
	}
}

// HistoryList prints recorded uploads of the signed-in user, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{
		"status": cmd.String("status"),
		"limit":  int(cmd.Int("limit")),
	}
	if !cmd.Bool("all") {
		profile := r.store.Profile()
		if profile == nil {
			return fmt.Errorf("%w: sign in or pass --all", shared.ErrNotAuthenticated)
		}
		criteria["username"] = profile.Username
	}

	return r.withHistory(func(db *sql.DB) error {
		uploads, err := repositories.NewUploadRepository(db).List(criteria)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			entries := make([]historyEntry, 0, len(uploads))
			for _, u := range uploads {
				entries = append(entries, newHistoryEntry(u))
			}
			return r.writeJSON(entries, true)
		}

		if len(uploads) == 0 {
			return r.writePlain("No uploads recorded yet\n")
		}
		for _, u := range uploads {
			r.writePlain("#%-4d %-10s %-32s %8s  %s\n",
				u.Sequence(), u.Status(), u.Filename(),
				humanize.Bytes(uint64(u.SizeBytes())), humanize.Time(u.CreatedAt()))
		}
		return nil
	})
}

// HistoryShow prints one upload, the overview of its result and its quiz attempts.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	return r.withHistory(func(db *sql.DB) error {
		u, err := resolveUpload(repositories.NewUploadRepository(db), cmd.StringArg("ref"))
		if err != nil {
			return err
		}

		r.writePlainHeader(fmt.Sprintf("Upload #%d: %s", u.Sequence(), u.Filename()))
		r.writePlain("ID: %s\n", u.ID())
		r.writePlain("User: %s\n", u.Username())
		r.writePlain("Status: %s\n", u.Status())
		r.writePlain("Size: %s (%s)\n", humanize.Bytes(uint64(u.SizeBytes())), u.ContentType())
		r.writePlain("Uploaded: %s\n", humanize.Time(u.CreatedAt()))
		if msg := u.ErrorMessage(); msg != "" {
			r.writePlain("Error: %s\n", msg)
		}

		attempts, err := repositories.NewQuizAttemptRepository(db).List(map[string]any{"upload_id": u.ID()})
		if err != nil {
			return err
		}
		if len(attempts) > 0 {
			r.writePlainln("Quiz attempts:")
			for _, a := range attempts {
				r.writePlain("  %d/%d  %s\n", a.Score(), a.Total(), humanize.Time(a.CreatedAt()))
			}
		}

		if len(u.Result()) > 0 {
			result, err := models.ParseUploadResult(u.Result())
			if err != nil {
				return err
			}
			r.writePlain("\n")
			return r.writeBytes(formatter.RenderOverview(result))
		}
		return nil
	})
}

// HistoryDelete soft-deletes an upload.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	return r.withHistory(func(db *sql.DB) error {
		repo := repositories.NewUploadRepository(db)
		u, err := resolveUpload(repo, cmd.StringArg("ref"))
		if err != nil {
			return err
		}
		if err := repo.Delete(u.ID()); err != nil {
			return err
		}
		return r.writePlain("✓ Removed #%d %s\n", u.Sequence(), u.Filename())
	})
}

// resolveUpload finds an upload by id or "#sequence".
func resolveUpload(repo *repositories.UploadRepository, ref string) (*models.Upload, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: upload id or #sequence", shared.ErrMissingArgument)
	}
	if seq, ok := parseSequence(ref); ok {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}

// parseSequence accepts "#12" or "12".
func parseSequence(ref string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// withHistory opens the history database for the duration of fn.
func (r *Runner) withHistory(fn func(db *sql.DB) error) error {
	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
