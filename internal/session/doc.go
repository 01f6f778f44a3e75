// Package session implements the engine's live session table.
//
// Sessions are immutable once created: a session is an id bound to a frozen
// set of weight overrides. Ids come from a monotonic counter and are never
// reused within a table, so a destroyed id stays invalid forever.
package session
