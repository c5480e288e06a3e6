// Package cli provides the interactive hoagie command-line client.
//
// It wires configuration, the local session database, the REST client, the
// query cache and the application services, then runs a line-oriented REPL.
// Each listing command opens a "view" (feed, hoagie, comments, search) whose
// lifetime is tied to a query.Subscription: switching views cancels the old
// one, so late results for it are never printed.
//
// Key features:
//   - Signup / Login / Logout, with the session restored on start
//   - Browse the feed and comment streams page by page ("more")
//   - Create, edit and delete hoagies (local pictures uploaded to S3)
//   - Comment on hoagies
//   - Manage collaborators through a debounced user search
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
