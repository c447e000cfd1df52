package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

const uploadColumns = `id, sequence, username, filename, content_type, size_bytes, status, error, result, created_at, updated_at, deleted_at`

// UploadRepository implements models.Repository[*models.Upload] for the local upload history.
//
// Handles upload CRUD operations with soft delete support. It also satisfies tasks.HistoryRecorder.
type UploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new UploadRepository with the given database connection
func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create inserts a new upload into the database with generated ID and sequence
func (r *UploadRepository) Create(upload *models.Upload) error {
	if err := upload.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "uploads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO uploads (id, sequence, username, filename, content_type, size_bytes, status, error, result, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		upload.Username(),
		upload.Filename(),
		upload.ContentType(),
		upload.SizeBytes(),
		string(upload.Status()),
		upload.ErrorMessage(),
		nullableJSON(upload.Result()),
		upload.CreatedAt(),
		upload.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}

	upload.SetID(id)
	upload.SetSequence(sequence)
	return nil
}

// Get retrieves an upload by ID, excluding soft-deleted uploads
func (r *UploadRepository) Get(id string) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetBySequence retrieves an upload by its sequence number
func (r *UploadRepository) GetBySequence(sequence int) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE sequence = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, sequence), fmt.Sprintf("#%d", sequence))
}

// Latest retrieves the most recent completed upload, optionally restricted to username
func (r *UploadRepository) Latest(username string) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE status = ? AND deleted_at IS NULL`
	args := []any{string(models.UploadCompleted)}
	if username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}
	query += " ORDER BY sequence DESC LIMIT 1"

	return r.scanOne(r.db.QueryRow(query, args...), "latest")
}

// Update modifies the status, error and result of an existing upload
func (r *UploadRepository) Update(upload *models.Upload) error {
	if err := upload.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	upload.SetUpdatedAt(now)

	query := `
		UPDATE uploads
		SET status = ?, error = ?, result = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(upload.Status()),
		upload.ErrorMessage(),
		nullableJSON(upload.Result()),
		now,
		upload.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update upload: %w", err)
	}

	return expectAffected(result, upload.ID())
}

// Delete soft-deletes an upload by ID
func (r *UploadRepository) Delete(id string) error {
	query := `
		UPDATE uploads
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	return expectAffected(result, id)
}

// List retrieves uploads matching the given criteria, newest first, excluding soft-deleted uploads.
//
// Supported criteria: "username" (string), "status" (string or models.UploadStatus), "limit" (int).
func (r *UploadRepository) List(criteria map[string]any) ([]*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE deleted_at IS NULL`
	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	switch status := criteria["status"].(type) {
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	case models.UploadStatus:
		query += " AND status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*models.Upload
	for rows.Next() {
		upload, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return uploads, nil
}

// scanOne scans a single row into a [models.Upload]
func (r *UploadRepository) scanOne(row *sql.Row, key string) (*models.Upload, error) {
	upload, err := scanUpload(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUploadNotFound, key)
	}
	return upload, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner) (*models.Upload, error) {
	var (
		id          string
		sequence    int
		username    string
		filename    string
		contentType string
		sizeBytes   int64
		status      string
		errMsg      string
		result      sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &username, &filename, &contentType, &sizeBytes, &status, &errMsg, &result, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan upload: %w", err)
	}

	upload := models.NewUpload(username, filename, contentType, sizeBytes)
	upload.SetID(id)
	upload.SetSequence(sequence)
	upload.SetStatus(models.UploadStatus(status))
	if result.Valid {
		upload.SetResult(json.RawMessage(result.String), errMsg)
	} else {
		upload.SetResult(nil, errMsg)
	}
	upload.SetCreatedAt(createdAt)
	upload.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		upload.SetDeletedAt(&deletedAt.Time)
	}

	return upload, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func expectAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUploadNotFound, id)
	}
	return nil
}
