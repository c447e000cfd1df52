package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/surf/internal/content"
	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/repositories"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadResult returns the raw result of the upload named by ref, or the last stored result when ref is empty.
func (r *Runner) loadResult(ref string) ([]byte, error) {
	if ref == "" {
		raw := r.store.LastResult()
		if len(raw) == 0 {
			return nil, fmt.Errorf("%w: upload a video first", shared.ErrNoUploadResult)
		}
		return raw, nil
	}

	var raw []byte
	err := r.withHistory(func(db *sql.DB) error {
		u, err := resolveUpload(repositories.NewUploadRepository(db), ref)
		if err != nil {
			return err
		}
		if len(u.Result()) == 0 {
			return fmt.Errorf("%w: upload #%d has status %s", shared.ErrNoUploadResult, u.Sequence(), u.Status())
		}
		raw = u.Result()
		return nil
	})
	return raw, err
}

// ContentShow renders the overview and the requested sections of a result.
func (r *Runner) ContentShow(ctx context.Context, cmd *cli.Command) error {
	raw, err := r.loadResult(cmd.String("upload"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(json.RawMessage(raw), true)
	}

	sections := content.Sections
	if names := cmd.StringSlice("section"); len(names) > 0 {
		sections = make([]content.Section, 0, len(names))
		for _, name := range names {
			s, err := content.ParseSection(name)
			if err != nil {
				return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
			}
			sections = append(sections, s)
		}
	} else {
		result, err := models.ParseUploadResult(raw)
		if err != nil {
			return err
		}
		r.writeBytes(formatter.RenderOverview(result))
		r.writePlain("\n")
	}

	registry := formatter.NewRegistry()
	var buf bytes.Buffer
	for i, s := range sections {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := registry.Render(&buf, raw, s); err != nil {
			return err
		}
	}
	return r.writeBytes(buf.Bytes())
}

// ContentExport writes the markdown and flashcard export of the last result.
func (r *Runner) ContentExport(ctx context.Context, cmd *cli.Command) error {
	raw, err := r.loadResult("")
	if err != nil {
		return err
	}
	result, err := models.ParseUploadResult(raw)
	if err != nil {
		return err
	}

	export, err := formatter.WriteMarkdownExport(result, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("export written", "dir", export.Directory, "files", len(export.Files))
	r.writePlain("✓ Exported to %s\n", export.Directory)
	for _, f := range export.Files {
		r.writePlain("  - %s\n", f)
	}
	return nil
}

// ContentQuiz asks every quiz question of the last result and prints the score.
//
// The attempt is recorded against the matching upload in the history database.
func (r *Runner) ContentQuiz(ctx context.Context, cmd *cli.Command) error {
	raw, err := r.loadResult("")
	if err != nil {
		return err
	}

	quiz := content.Extract(raw).Quiz
	if quiz == nil || len(quiz.Questions) == 0 {
		return r.writePlain("%s\n", formatter.EmptyQuiz)
	}

	title := quiz.Metadata.Title
	if title == "" {
		title = formatter.TitleQuiz
	}
	r.writePlainHeader(title)

	answers := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		r.writePlain("\n%d. %s\n", i+1, q.Question)
		for _, o := range q.Options {
			r.writePlain("   %s\n", o)
		}
		hint := "Answer"
		switch q.Type {
		case models.QuestionMultipleChoice:
			hint = "Answer (letter)"
		case models.QuestionTrueFalse:
			hint = "Answer (true/false)"
		}
		if answers[i], err = r.prompt(hint); err != nil {
			return err
		}
	}

	score := formatter.ScoreQuiz(quiz.Questions, answers)

	r.writePlain("\n")
	for _, res := range score.Results {
		mark := "✓"
		if !res.Correct {
			mark = "✗"
		}
		r.writePlain("%s %d. %s (expected %s)\n", mark, res.Index+1, res.Answer, res.Expected)
	}
	r.writePlain("\nScore: %d/%d (%d%%) %s\n", score.Correct, score.Total, score.Percent(), score.Message())

	if !cmd.Bool("no-history") {
		if err := r.recordAttempt(raw, score, answers); err != nil {
			r.logger.Warn("quiz attempt not recorded", "error", err)
		}
	}
	return nil
}

// recordAttempt stores a quiz attempt for the latest completed upload whose result matches raw.
func (r *Runner) recordAttempt(raw []byte, score formatter.QuizScore, answers []string) error {
	profile := r.store.Profile()
	if profile == nil {
		return shared.ErrNotAuthenticated
	}

	return r.withHistory(func(db *sql.DB) error {
		upload, err := repositories.NewUploadRepository(db).Latest(profile.Username)
		if err != nil {
			return err
		}
		if !sameJSON(upload.Result(), raw) {
			return errors.New("last result is not in the upload history")
		}

		byQuestion := make(map[string]string, len(answers))
		for i, a := range answers {
			byQuestion[strconv.Itoa(i+1)] = a
		}
		attempt := models.NewQuizAttempt(upload.ID(), score.Correct, score.Total, byQuestion)
		if err := repositories.NewQuizAttemptRepository(db).Create(attempt); err != nil {
			return err
		}
		r.logger.Debug("quiz attempt recorded", "upload", upload.ID(), "score", score.Correct)
		return nil
	})
}

func sameJSON(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
