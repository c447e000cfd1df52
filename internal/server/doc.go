// Package server provides HTTP routing, middleware and an in-memory backend for local development.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers so that the first one added runs first. [RequestLogger], [Recoverer]
// and [RequireAPIKey] cover logging, panic recovery and the shared application key.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns.
//
// # Backend
//
// [Backend] serves the learning platform API from memory:
//
//	POST /api/auth/signin              credentials -> access token + profile
//	POST /api/auth/signup              new account -> access token + profile
//	GET  /api/user/profile             bearer token -> profile
//	PUT  /api/user/preferences         bearer token + preferences -> profile
//	POST /api/process-video-complete   multipart video -> canned learning materials
//	GET  /health                       liveness
//
// Passwords are stored as bcrypt hashes and access tokens are HS256 JWTs. Errors use the
// `{"detail": ...}` body shape of the real service, either a string or a list of
// {loc, msg, type} entries for validation failures.
//
// `surf dev server` runs the backend with [ListenAndServe]; tests mount [Backend.Handler] on an
// httptest server.
package server
