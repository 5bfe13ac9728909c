// Package internal documents the EventSportify server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: business logic for events, users, and participants
// - storage: Postgres repositories and migrations
// - auth, config, metrics, sanitize, validation: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
