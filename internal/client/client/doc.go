// Package client talks to the Hoagie REST backend.
//
// # Overview
//
// The package provides:
//  1. Narrow API contracts per resource (HoagieAPI, CommentAPI,
//     CollaboratorAPI, UserAPI) and the Client interface combining them.
//  2. HTTPClient, the JSON-over-HTTP implementation: base URL, fixed
//     timeout, default headers, a per-request X-Request-ID, and uniform
//     error translation.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns an *APIError whose Error() is a display-ready
// message: the server's "message" field when present, otherwise a default
// for the operation. The underlying transport error is not kept. Callers
// classify failures with errors.Is against ErrUnavailable, ErrUnauthorized,
// ErrNotFound, ErrServer and ErrBadResponse. Caller cancellation is returned
// as the context error itself.
//
// All operations accept context.Context and honour cancellation.
package client
