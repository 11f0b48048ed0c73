// Package merge implements the pure entity-merge rules for live updates.
//
// An SSE event payload may be a full snapshot or a partial one, and partial
// payloads must never erase fields they do not carry. The canonical example:
// order_updated payloads do not include line items, so a status change must
// not truncate a previously fetched item list to empty.
//
// All functions here are pure: identical inputs produce identical outputs,
// and the existing value passed in is never mutated. State ownership and
// side effects live in livestore and notify respectively.
package merge
