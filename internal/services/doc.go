// Package services implements [Client], the HTTP client for the StudySurf backend.
//
// # Endpoints
//
// The client covers sign-in, sign-up, profile, preferences, health and the video upload:
//   - POST [PathSignin] and [PathSignup] store the returned token and profile in the [session.Store]
//   - GET [PathProfile] refreshes the cached profile
//   - PUT [PathPreferences] sends the full preference set
//   - POST [PathUpload] streams a multipart form with the video and the user context
//
// Every request carries the [HeaderAPIKey] header. Authenticated calls add a bearer token
// through [oauth2.Token.SetAuthHeader].
//
// # Uploads
//
// [Client.UploadVideo] pipes the file through a multipart writer so the video is never
// buffered in memory. A [ProgressFunc] receives whole percentages of bytes sent.
//
// # Error Handling
//
// Failures are returned as [*Error] carrying an [ErrorKind], the message shown to the user and a
// sentinel from the shared package:
//   - [shared.ErrNotAuthenticated] : no token in the store
//   - [shared.ErrInvalidCredentials] : 401 on sign-in
//   - [shared.ErrAuthExpired] : 401 on an authenticated call, the session is cleared
//   - [shared.ErrFileTooLarge] : 413 from the upload endpoint
//   - [shared.ErrNetwork] : the request never produced a response
//   - [shared.ErrAPIRequest] : any other non-2xx reply
//
// Context cancellation is returned unchanged so callers can tell it apart from API failures.
package services
