package shared

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"maps"
	"path"
	"regexp"
	"slices"
	"strconv"
	"time"
)

//go:embed sql/*.sql
var schemaFiles embed.FS

// ErrNothingToRollback is returned by [Migrator.Down] when no migration is applied.
var ErrNothingToRollback = errors.New("no applied migrations")

// schemaFile matches "0001_create_quiz_attempts_up.sql".
var schemaFile = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)_(up|down)\.sql$`)

// Migration is one numbered change to the history schema.
type Migration struct {
	Version int
	Name    string // e.g. "create_uploads"
	Up      string
	Down    string
}

// Label returns "0001 create_quiz_attempts".
func (m Migration) Label() string {
	return fmt.Sprintf("%04d %s", m.Version, m.Name)
}

// MigrationState is a migration with its applied state in one database.
type MigrationState struct {
	Migration
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the embedded history schema (uploads, then quiz_attempts) to a database.
//
// Applied versions are tracked in schema_migrations.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

// NewMigrator loads the embedded schema and prepares the tracking table.
func NewMigrator(db *sql.DB) (*Migrator, error) {
	migrations, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

// Migrations returns the known migrations in version order.
func (m *Migrator) Migrations() []Migration { return slices.Clone(m.migrations) }

// Up applies every pending migration in version order and returns the ones it applied.
func (m *Migrator) Up() ([]Migration, error) {
	applied, err := m.appliedAt()
	if err != nil {
		return nil, err
	}

	var ran []Migration
	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		err := m.inTx(mig.Up, "INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			mig.Version, mig.Name, time.Now().UTC())
		if err != nil {
			return ran, fmt.Errorf("failed to apply migration %s: %w", mig.Label(), err)
		}
		ran = append(ran, mig)
	}
	return ran, nil
}

// Down reverts the highest applied migration and returns it.
//
// Repeated calls walk the schema back in reverse version order.
func (m *Migrator) Down() (*Migration, error) {
	applied, err := m.appliedAt()
	if err != nil {
		return nil, err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if _, ok := applied[mig.Version]; !ok {
			continue
		}
		if err := m.inTx(mig.Down, "DELETE FROM schema_migrations WHERE version = ?", mig.Version); err != nil {
			return nil, fmt.Errorf("failed to roll back migration %s: %w", mig.Label(), err)
		}
		return &mig, nil
	}

	if len(applied) > 0 {
		return nil, fmt.Errorf("applied versions %v have no embedded migration", slices.Sorted(maps.Keys(applied)))
	}
	return nil, ErrNothingToRollback
}

// Status reports every known migration in version order.
func (m *Migrator) Status() ([]MigrationState, error) {
	applied, err := m.appliedAt()
	if err != nil {
		return nil, err
	}

	states := make([]MigrationState, 0, len(m.migrations))
	for _, mig := range m.migrations {
		at, ok := applied[mig.Version]
		states = append(states, MigrationState{Migration: mig, Applied: ok, AppliedAt: at})
	}
	return states, nil
}

func (m *Migrator) appliedAt() (map[int]time.Time, error) {
	rows, err := m.db.Query("SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var (
			version int
			at      time.Time
		)
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = at
	}
	return applied, rows.Err()
}

// inTx runs script and the bookkeeping statement in one transaction.
func (m *Migrator) inTx(script, bookkeeping string, args ...any) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec(bookkeeping, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// loadSchema pairs the embedded up and down scripts by version.
func loadSchema() ([]Migration, error) {
	entries, err := schemaFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		match := schemaFile.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, _ := strconv.Atoi(match[1])

		data, err := schemaFiles.ReadFile(path.Join("sql", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		mig := byVersion[version]
		if mig == nil {
			mig = &Migration{Version: version, Name: match[2]}
			byVersion[version] = mig
		} else if mig.Name != match[2] {
			return nil, fmt.Errorf("migration %04d has conflicting names %q and %q", version, mig.Name, match[2])
		}

		if match[3] == "up" {
			mig.Up = string(data)
		} else {
			mig.Down = string(data)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.Up == "" || mig.Down == "" {
			return nil, fmt.Errorf("incomplete migration %s", mig.Label())
		}
		migrations = append(migrations, *mig)
	}
	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	return migrations, nil
}

// RunMigrations applies every pending migration to db.
func RunMigrations(db *sql.DB) error {
	m, err := NewMigrator(db)
	if err != nil {
		return err
	}
	_, err = m.Up()
	return err
}
