// Package models holds the records the client mirrors from server
// responses. Relationships between records are opaque string IDs; the client
// never resolves them itself.
package models
