package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

// ErrAttemptImmutable is returned by [QuizAttemptRepository.Update].
var ErrAttemptImmutable = fmt.Errorf("quiz attempts cannot be modified")

// QuizAttemptRepository implements models.Repository[*models.QuizAttempt].
//
// Attempts are never updated and are hard deleted, either directly or with their upload.
type QuizAttemptRepository struct {
	db *sql.DB
}

// NewQuizAttemptRepository creates a new QuizAttemptRepository with the given database connection
func NewQuizAttemptRepository(db *sql.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{db: db}
}

// Create inserts a new attempt with a generated ID
func (r *QuizAttemptRepository) Create(attempt *models.QuizAttempt) error {
	if err := attempt.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	answers, err := json.Marshal(attempt.Answers())
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO quiz_attempts (id, upload_id, score, total, answers, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, attempt.UploadID(), attempt.Score(), attempt.Total(), string(answers), attempt.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert quiz attempt: %w", err)
	}

	attempt.SetID(id)
	return nil
}

// Get retrieves an attempt by ID
func (r *QuizAttemptRepository) Get(id string) (*models.QuizAttempt, error) {
	query := `SELECT id, upload_id, score, total, answers, created_at FROM quiz_attempts WHERE id = ?`

	attempt, err := scanAttempt(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("quiz attempt not found: %s", id)
	}
	return attempt, err
}

// Update always fails with [ErrAttemptImmutable]
func (r *QuizAttemptRepository) Update(*models.QuizAttempt) error {
	return ErrAttemptImmutable
}

// Delete removes an attempt by ID
func (r *QuizAttemptRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM quiz_attempts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz attempt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("quiz attempt not found: %s", id)
	}
	return nil
}

// List retrieves attempts, newest first. Supported criteria: "upload_id" (string).
func (r *QuizAttemptRepository) List(criteria map[string]any) ([]*models.QuizAttempt, error) {
	query := `SELECT id, upload_id, score, total, answers, created_at FROM quiz_attempts`
	args := []any{}

	if uploadID, ok := criteria["upload_id"].(string); ok && uploadID != "" {
		query += " WHERE upload_id = ?"
		args = append(args, uploadID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.QuizAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return attempts, nil
}

// Best returns the highest scoring attempt for an upload
func (r *QuizAttemptRepository) Best(uploadID string) (*models.QuizAttempt, error) {
	query := `
		SELECT id, upload_id, score, total, answers, created_at
		FROM quiz_attempts
		WHERE upload_id = ?
		ORDER BY CAST(score AS REAL) / MAX(total, 1) DESC, created_at ASC
		LIMIT 1
	`

	attempt, err := scanAttempt(r.db.QueryRow(query, uploadID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no quiz attempts for upload: %s", uploadID)
	}
	return attempt, err
}

func scanAttempt(s scanner) (*models.QuizAttempt, error) {
	var (
		id        string
		uploadID  string
		score     int
		total     int
		answers   string
		createdAt time.Time
	)

	err := s.Scan(&id, &uploadID, &score, &total, &answers, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
	}

	decoded := map[string]string{}
	if err := json.Unmarshal([]byte(answers), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}

	attempt := models.NewQuizAttempt(uploadID, score, total, decoded)
	attempt.SetID(id)
	attempt.SetCreatedAt(createdAt)
	return attempt, nil
}
