package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// UploadStatus is the local lifecycle state of an [Upload].
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadCompleted UploadStatus = "completed"
	UploadFailed    UploadStatus = "failed"
)

// Upload is the local history record of one video upload.
type Upload struct {
	id          string
	sequence    int
	username    string
	filename    string
	contentType string
	sizeBytes   int64
	status      UploadStatus
	errMsg      string
	result      json.RawMessage
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewUpload creates a pending [Upload] for the given file.
func NewUpload(username, filename, contentType string, sizeBytes int64) *Upload {
	now := time.Now().UTC()
	return &Upload{
		username:    username,
		filename:    filename,
		contentType: contentType,
		sizeBytes:   sizeBytes,
		status:      UploadPending,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (u *Upload) ID() string              { return u.id }
func (u *Upload) Sequence() int           { return u.sequence }
func (u *Upload) Username() string        { return u.username }
func (u *Upload) Filename() string        { return u.filename }
func (u *Upload) ContentType() string     { return u.contentType }
func (u *Upload) SizeBytes() int64        { return u.sizeBytes }
func (u *Upload) Status() UploadStatus    { return u.status }
func (u *Upload) ErrorMessage() string    { return u.errMsg }
func (u *Upload) Result() json.RawMessage { return u.result }
func (u *Upload) CreatedAt() time.Time    { return u.createdAt }
func (u *Upload) UpdatedAt() time.Time    { return u.updatedAt }
func (u *Upload) DeletedAt() *time.Time   { return u.deletedAt }

func (u *Upload) SetID(id string)               { u.id = id }
func (u *Upload) SetSequence(seq int)           { u.sequence = seq }
func (u *Upload) SetCreatedAt(t time.Time)      { u.createdAt = t }
func (u *Upload) SetUpdatedAt(t time.Time)      { u.updatedAt = t }
func (u *Upload) SetDeletedAt(t *time.Time)     { u.deletedAt = t }
func (u *Upload) SetStatus(status UploadStatus) { u.status = status; u.touch() }

// Complete marks the upload as completed and stores the server payload.
func (u *Upload) Complete(result json.RawMessage) {
	u.status = UploadCompleted
	u.errMsg = ""
	u.result = append(json.RawMessage(nil), result...)
	u.touch()
}

// Fail marks the upload as failed with the user-facing message.
func (u *Upload) Fail(msg string) {
	u.status = UploadFailed
	u.errMsg = msg
	u.touch()
}

// SetResult restores the stored payload and error message when loading from the database.
func (u *Upload) SetResult(result json.RawMessage, errMsg string) {
	u.result = result
	u.errMsg = errMsg
}

// Validate checks required fields and the status value.
func (u *Upload) Validate() error {
	if u.filename == "" {
		return fmt.Errorf("filename is required")
	}
	switch u.status {
	case UploadPending, UploadCompleted, UploadFailed:
	default:
		return fmt.Errorf("invalid status: %q", u.status)
	}
	if u.status == UploadCompleted && len(u.result) == 0 {
		return fmt.Errorf("completed upload requires a result")
	}
	return nil
}

func (u *Upload) touch() { u.updatedAt = time.Now().UTC() }

// QuizAttempt records one scored quiz run against an [Upload].
type QuizAttempt struct {
	id        string
	uploadID  string
	score     int
	total     int
	answers   map[string]string
	createdAt time.Time
}

// NewQuizAttempt creates a [QuizAttempt] with answers keyed by question id.
func NewQuizAttempt(uploadID string, score, total int, answers map[string]string) *QuizAttempt {
	return &QuizAttempt{
		uploadID:  uploadID,
		score:     score,
		total:     total,
		answers:   answers,
		createdAt: time.Now().UTC(),
	}
}

func (q *QuizAttempt) ID() string                 { return q.id }
func (q *QuizAttempt) UploadID() string           { return q.uploadID }
func (q *QuizAttempt) Score() int                 { return q.score }
func (q *QuizAttempt) Total() int                 { return q.total }
func (q *QuizAttempt) Answers() map[string]string { return q.answers }
func (q *QuizAttempt) CreatedAt() time.Time       { return q.createdAt }

// UpdatedAt equals CreatedAt; attempts are immutable.
func (q *QuizAttempt) UpdatedAt() time.Time { return q.createdAt }

func (q *QuizAttempt) SetID(id string)          { q.id = id }
func (q *QuizAttempt) SetCreatedAt(t time.Time) { q.createdAt = t }

func (q *QuizAttempt) Validate() error {
	if q.uploadID == "" {
		return fmt.Errorf("upload id is required")
	}
	if q.total < 0 || q.score < 0 || q.score > q.total {
		return fmt.Errorf("score %d out of range for %d questions", q.score, q.total)
	}
	return nil
}
