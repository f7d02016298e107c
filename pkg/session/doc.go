// Package session owns the lifecycle of one brand-mention search: issuing a
// fresh search, appending subsequent pages, tracking the pagination cursor,
// and surfacing errors.
//
// All state lives in a single State value. Transitions are pure functions
// (Event.Apply) so the whole state machine is unit-testable without a server
// or a rendering environment. The Controller wraps the transitions with the
// actual fetch calls and guards against overlapping and stale requests:
//
//   - at most one fetch is in flight per session; LoadMore while loading is
//     a no-op
//   - every request carries a generation number; a response whose generation
//     is no longer current is discarded, so a slow first search can never
//     overwrite the results of a newer one
//
// Results accumulate append-only within one search and are replaced wholesale
// when a new search starts. Nothing is persisted.
package session
