// Package tasks runs the video upload workflow with progress reporting.
//
// # Upload Lifecycle
//
// [UploadWorkflow.Upload] drives one upload through four phases:
//
//  1. Validate: the file is inspected ([InspectFile]) and checked against
//     [MaxVideoSize] and [AllowedVideoTypes] before any network call.
//  2. Upload: the stored profile supplies the personalization fields and the
//     file is streamed through an [Uploader].
//  3. Process: reported once all bytes are sent while the server generates content.
//  4. Complete: the raw result is saved to the session and reported to callers.
//
// Failures surface through [Callbacks.OnError] with a user facing message. An
// expired session also navigates to the sign-in route.
//
// # Progress Reporting
//
// Progress updates are sent on an optional channel with select/default so a
// slow consumer never blocks an upload.
//
// # Bulk Uploads
//
// [UploadWorkflow.BulkUpload] feeds several files through a bounded worker
// pool with a rate limiter and can write a JSON manifest of the outcomes.
// Workers never write the session directly; the last successful file in input
// order is stored after the pool drains.
//
// # History
//
// The optional [HistoryRecorder] persists every attempt
// (repositories.UploadRepository in the CLI).
package tasks
