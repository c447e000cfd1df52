// Package models defines the records exchanged with the StudySurf backend and the entities persisted locally.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): request and response records of the backend API
//   - [UserProfile] : Server-authoritative identity and learning preferences
//   - [SigninRequest], [SignupRequest], [UpdatePreferencesRequest] : API inputs
//   - [AuthResponse] : Bearer token plus profile returned by signin/signup
//   - [UploadResult] : Full payload of one video-processing request
//   - Section payloads ([Explanation], [Quiz], [Summary], ...) decoded from an [UploadResult]
//
// 2. Persistent Entities: sqlite-backed records with lifecycle management
//   - [Upload] : One upload attempt with its mirrored result
//   - [QuizAttempt] : A scored quiz run against an upload
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
