// Package repositories implements SQLite persistence for the local upload history.
//
// Each repository handles CRUD operations for one entity type and implements models.Repository[T].
// Uploads are soft deleted via deleted_at timestamps and excluded from queries by default.
//
// Key Implementations:
//   - [UploadRepository] : Upload history with the raw server result, also used as the
//     upload workflow's history recorder
//   - [QuizAttemptRepository] : Scored quiz runs against an upload
//
// Uploads carry a sequence number for stable, human-readable ordering (e.g. upload #3) independent of
// UUIDs and creation timestamps. The [NextSequence] function atomically increments per-table sequence
// counters in dedicated sequence tables.
package repositories
