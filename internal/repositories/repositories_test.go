package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/desertthunder/surf/internal/tasks"
)

var (
	_ models.Repository[*models.Upload]      = (*UploadRepository)(nil)
	_ models.Repository[*models.QuizAttempt] = (*QuizAttemptRepository)(nil)
	_ tasks.HistoryRecorder                  = (*UploadRepository)(nil)
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func createUpload(t *testing.T, repo *UploadRepository, username, filename string) *models.Upload {
	t.Helper()
	upload := models.NewUpload(username, filename, "video/mp4", 1024)
	if err := repo.Create(upload); err != nil {
		t.Fatalf("failed to create upload: %v", err)
	}
	return upload
}

func TestUploadRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		upload := createUpload(t, repo, "ada", "lecture.mp4")

		if upload.ID() == "" {
			t.Error("upload ID should be set after creation")
		}
		if upload.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", upload.Sequence())
		}
	})

	t.Run("Create Invalid", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		if err := repo.Create(models.NewUpload("ada", "", "video/mp4", 0)); err == nil {
			t.Error("expected validation error for empty filename")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		upload := createUpload(t, repo, "ada", "lecture.mp4")

		retrieved, err := repo.Get(upload.ID())
		if err != nil {
			t.Fatalf("failed to get upload: %v", err)
		}
		if retrieved.Filename() != "lecture.mp4" || retrieved.Username() != "ada" || retrieved.SizeBytes() != 1024 {
			t.Errorf("unexpected upload %+v", retrieved)
		}
		if retrieved.Status() != models.UploadPending || retrieved.Result() != nil {
			t.Errorf("expected pending upload without result, got %s", retrieved.Status())
		}

		bySeq, err := repo.GetBySequence(upload.Sequence())
		if err != nil || bySeq.ID() != upload.ID() {
			t.Errorf("GetBySequence() = %v, %v", bySeq, err)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrUploadNotFound) {
			t.Errorf("expected ErrUploadNotFound, got %v", err)
		}
		if _, err := repo.GetBySequence(42); !errors.Is(err, shared.ErrUploadNotFound) {
			t.Errorf("expected ErrUploadNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		upload := createUpload(t, repo, "ada", "lecture.mp4")

		upload.Complete(json.RawMessage(`{"status":"success"}`))
		if err := repo.Update(upload); err != nil {
			t.Fatalf("failed to update upload: %v", err)
		}

		retrieved, err := repo.Get(upload.ID())
		if err != nil {
			t.Fatalf("failed to get upload: %v", err)
		}
		if retrieved.Status() != models.UploadCompleted || string(retrieved.Result()) != `{"status":"success"}` {
			t.Errorf("unexpected upload status=%s result=%s", retrieved.Status(), retrieved.Result())
		}

		upload.Fail("Video file is too large.")
		if err := repo.Update(upload); err != nil {
			t.Fatalf("failed to update upload: %v", err)
		}
		retrieved, _ = repo.Get(upload.ID())
		if retrieved.Status() != models.UploadFailed || retrieved.ErrorMessage() != "Video file is too large." {
			t.Errorf("unexpected failed upload %s %q", retrieved.Status(), retrieved.ErrorMessage())
		}
	})

	t.Run("Update Missing", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		upload := models.NewUpload("ada", "lecture.mp4", "video/mp4", 0)
		upload.SetID("missing")
		if err := repo.Update(upload); !errors.Is(err, shared.ErrUploadNotFound) {
			t.Errorf("expected ErrUploadNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		upload := createUpload(t, repo, "ada", "lecture.mp4")

		if err := repo.Delete(upload.ID()); err != nil {
			t.Fatalf("failed to delete upload: %v", err)
		}
		if _, err := repo.Get(upload.ID()); err == nil {
			t.Error("deleted upload should not be retrievable")
		}
		if err := repo.Delete(upload.ID()); err == nil {
			t.Error("deleting twice should fail")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		first := createUpload(t, repo, "ada", "one.mp4")
		createUpload(t, repo, "grace", "two.mp4")
		third := createUpload(t, repo, "ada", "three.mp4")
		third.Complete(json.RawMessage(`{}`))
		if err := repo.Update(third); err != nil {
			t.Fatalf("failed to update upload: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list uploads: %v", err)
		}
		if len(all) != 3 || all[0].Filename() != "three.mp4" {
			t.Errorf("expected 3 uploads newest first, got %d", len(all))
		}

		tests := []struct {
			name     string
			criteria map[string]any
			want     int
		}{
			{"by username", map[string]any{"username": "ada"}, 2},
			{"by status string", map[string]any{"status": "completed"}, 1},
			{"by status", map[string]any{"status": models.UploadPending}, 2},
			{"limit", map[string]any{"limit": 1}, 1},
			{"combined", map[string]any{"username": "ada", "status": "pending"}, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.List(tt.criteria)
				if err != nil {
					t.Fatalf("List() error = %v", err)
				}
				if len(got) != tt.want {
					t.Errorf("expected %d uploads, got %d", tt.want, len(got))
				}
			})
		}

		if err := repo.Delete(first.ID()); err != nil {
			t.Fatalf("failed to delete upload: %v", err)
		}
		remaining, _ := repo.List(map[string]any{"username": "ada"})
		if len(remaining) != 1 {
			t.Errorf("soft-deleted uploads should be excluded, got %d", len(remaining))
		}
	})

	t.Run("Latest", func(t *testing.T) {
		repo := NewUploadRepository(setupTestDB(t))
		if _, err := repo.Latest(""); !errors.Is(err, shared.ErrUploadNotFound) {
			t.Errorf("expected ErrUploadNotFound, got %v", err)
		}

		for _, name := range []string{"one.mp4", "two.mp4"} {
			u := createUpload(t, repo, "ada", name)
			u.Complete(json.RawMessage(`{"name":"` + name + `"}`))
			if err := repo.Update(u); err != nil {
				t.Fatalf("failed to update upload: %v", err)
			}
		}
		createUpload(t, repo, "ada", "pending.mp4")

		latest, err := repo.Latest("ada")
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if latest.Filename() != "two.mp4" {
			t.Errorf("expected two.mp4, got %s", latest.Filename())
		}
		if _, err := repo.Latest("grace"); err == nil {
			t.Error("expected no uploads for another user")
		}
	})
}

func TestQuizAttemptRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		upload := createUpload(t, NewUploadRepository(db), "ada", "lecture.mp4")
		repo := NewQuizAttemptRepository(db)

		attempt := models.NewQuizAttempt(upload.ID(), 2, 3, map[string]string{"1": "A", "2": "True"})
		if err := repo.Create(attempt); err != nil {
			t.Fatalf("failed to create attempt: %v", err)
		}

		retrieved, err := repo.Get(attempt.ID())
		if err != nil {
			t.Fatalf("failed to get attempt: %v", err)
		}
		if retrieved.Score() != 2 || retrieved.Total() != 3 || retrieved.Answers()["2"] != "True" {
			t.Errorf("unexpected attempt %+v", retrieved)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		repo := NewQuizAttemptRepository(setupTestDB(t))
		if err := repo.Create(models.NewQuizAttempt("", 1, 1, nil)); err == nil {
			t.Error("expected error for missing upload id")
		}
		if err := repo.Create(models.NewQuizAttempt("x", 4, 3, nil)); err == nil {
			t.Error("expected error for score above total")
		}
	})

	t.Run("Foreign Key", func(t *testing.T) {
		repo := NewQuizAttemptRepository(setupTestDB(t))
		if err := repo.Create(models.NewQuizAttempt("missing-upload", 1, 1, nil)); err == nil {
			t.Error("expected foreign key violation")
		}
	})

	t.Run("Immutable", func(t *testing.T) {
		repo := NewQuizAttemptRepository(setupTestDB(t))
		if err := repo.Update(&models.QuizAttempt{}); !errors.Is(err, ErrAttemptImmutable) {
			t.Errorf("expected ErrAttemptImmutable, got %v", err)
		}
	})

	t.Run("List Best Delete", func(t *testing.T) {
		db := setupTestDB(t)
		uploads := NewUploadRepository(db)
		one := createUpload(t, uploads, "ada", "one.mp4")
		two := createUpload(t, uploads, "ada", "two.mp4")
		repo := NewQuizAttemptRepository(db)

		for _, a := range []*models.QuizAttempt{
			models.NewQuizAttempt(one.ID(), 1, 4, nil),
			models.NewQuizAttempt(one.ID(), 3, 4, nil),
			models.NewQuizAttempt(two.ID(), 0, 2, nil),
		} {
			if err := repo.Create(a); err != nil {
				t.Fatalf("failed to create attempt: %v", err)
			}
		}

		forOne, err := repo.List(map[string]any{"upload_id": one.ID()})
		if err != nil || len(forOne) != 2 {
			t.Fatalf("List() = %d, %v", len(forOne), err)
		}
		all, _ := repo.List(nil)
		if len(all) != 3 {
			t.Errorf("expected 3 attempts, got %d", len(all))
		}

		best, err := repo.Best(one.ID())
		if err != nil || best.Score() != 3 {
			t.Errorf("Best() = %v, %v", best, err)
		}

		if err := repo.Delete(best.ID()); err != nil {
			t.Fatalf("failed to delete attempt: %v", err)
		}
		if err := repo.Delete(best.ID()); err == nil {
			t.Error("deleting twice should fail")
		}
		if _, err := repo.Best("none"); err == nil {
			t.Error("expected error without attempts")
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	seq1, err := NextSequence(db, "uploads")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}
	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "uploads")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}
	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}
