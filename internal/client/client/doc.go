// Package client contains the transport building blocks of the StudyShare
// terminal client.
//
// # Overview
//
//  1. A transport contract (Requester) used by the resource accessors.
//  2. HTTPClient, the implementation: it attaches the bearer token from a
//     TokenSource, tags every call with a request id, maps non-2xx answers to
//     *APIError and runs the registered logout callback once per rejected
//     token.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrBadRequest,
// ErrConflict. *APIError keeps the status and the server message.
package client
