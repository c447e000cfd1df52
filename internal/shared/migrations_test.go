package shared

import (
	"database/sql"
	"errors"
	"slices"
	"testing"
)

func newMigrator(t *testing.T) (*sql.DB, *Migrator) {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	m, err := NewMigrator(db)
	if err != nil {
		t.Fatalf("NewMigrator() error = %v", err)
	}
	return db, m
}

func columns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("failed to read columns of %s: %v", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan column: %v", err)
		}
		names = append(names, name)
	}
	return names
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n); err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrator(t *testing.T) {
	t.Run("Embedded Schema", func(t *testing.T) {
		_, m := newMigrator(t)

		var labels []string
		for _, mig := range m.Migrations() {
			labels = append(labels, mig.Label())
		}
		want := []string{"0000 create_uploads", "0001 create_quiz_attempts"}
		if !slices.Equal(labels, want) {
			t.Errorf("expected %v, got %v", want, labels)
		}
	})

	t.Run("Up Creates History Tables", func(t *testing.T) {
		db, m := newMigrator(t)

		ran, err := m.Up()
		if err != nil {
			t.Fatalf("Up() error = %v", err)
		}
		if len(ran) != 2 {
			t.Fatalf("expected 2 migrations applied, got %d", len(ran))
		}

		uploads := columns(t, db, "uploads")
		for _, col := range []string{"id", "sequence", "username", "status", "error", "result", "created_at", "updated_at", "deleted_at"} {
			if !slices.Contains(uploads, col) {
				t.Errorf("uploads is missing column %s, has %v", col, uploads)
			}
		}

		attempts := columns(t, db, "quiz_attempts")
		for _, col := range []string{"id", "upload_id", "score", "total", "answers", "created_at"} {
			if !slices.Contains(attempts, col) {
				t.Errorf("quiz_attempts is missing column %s, has %v", col, attempts)
			}
		}

		var parent string
		if err := db.QueryRow("SELECT \"table\" FROM pragma_foreign_key_list('quiz_attempts')").Scan(&parent); err != nil {
			t.Fatalf("failed to read foreign keys: %v", err)
		}
		if parent != "uploads" {
			t.Errorf("expected quiz_attempts to reference uploads, got %s", parent)
		}

		var seq int
		if err := db.QueryRow("SELECT value FROM uploads_sequence WHERE id = 1").Scan(&seq); err != nil || seq != 0 {
			t.Errorf("expected sequence row seeded at 0, got %d (%v)", seq, err)
		}
	})

	t.Run("Up Is Idempotent", func(t *testing.T) {
		_, m := newMigrator(t)

		if _, err := m.Up(); err != nil {
			t.Fatalf("first Up() error = %v", err)
		}
		ran, err := m.Up()
		if err != nil {
			t.Fatalf("second Up() error = %v", err)
		}
		if len(ran) != 0 {
			t.Errorf("expected nothing to apply, got %d", len(ran))
		}
	})

	t.Run("Down Walks Back In Reverse Order", func(t *testing.T) {
		db, m := newMigrator(t)
		if _, err := m.Up(); err != nil {
			t.Fatalf("Up() error = %v", err)
		}

		first, err := m.Down()
		if err != nil {
			t.Fatalf("Down() error = %v", err)
		}
		if first.Name != "create_quiz_attempts" {
			t.Errorf("expected quiz attempts to roll back first, got %s", first.Label())
		}
		if tableExists(t, db, "quiz_attempts") || !tableExists(t, db, "uploads") {
			t.Error("expected only quiz_attempts to be dropped")
		}

		second, err := m.Down()
		if err != nil {
			t.Fatalf("Down() error = %v", err)
		}
		if second.Name != "create_uploads" {
			t.Errorf("expected uploads to roll back second, got %s", second.Label())
		}
		if tableExists(t, db, "uploads") || tableExists(t, db, "uploads_sequence") {
			t.Error("expected uploads tables to be dropped")
		}

		if _, err := m.Down(); !errors.Is(err, ErrNothingToRollback) {
			t.Errorf("expected ErrNothingToRollback, got %v", err)
		}
	})

	t.Run("Status Tracks Applied Versions", func(t *testing.T) {
		_, m := newMigrator(t)

		states, err := m.Status()
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		for _, st := range states {
			if st.Applied {
				t.Errorf("expected %s to be pending on a fresh database", st.Label())
			}
		}

		if _, err := m.Up(); err != nil {
			t.Fatalf("Up() error = %v", err)
		}
		if _, err := m.Down(); err != nil {
			t.Fatalf("Down() error = %v", err)
		}

		states, err = m.Status()
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if !states[0].Applied || states[0].AppliedAt.IsZero() {
			t.Errorf("expected 0000 applied with a timestamp, got %+v", states[0])
		}
		if states[1].Applied {
			t.Error("expected 0001 pending after rollback")
		}
	})

	t.Run("RunMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}
		if !tableExists(t, db, "quiz_attempts") {
			t.Error("expected quiz_attempts after RunMigrations")
		}
	})
}
