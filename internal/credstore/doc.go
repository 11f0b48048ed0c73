// Package credstore persists the operator's login between console runs:
// the bearer token and the cached user profile, stored under fixed keys in
// a small SQLite file.
//
// The store is restored at startup and cleared on logout or when the API
// answers 401. SQLite is deliberate overkill for two keys: it gives atomic
// writes, a busy timeout against concurrent console instances, and a
// versioned schema for whatever else ends up persisted later (seen markers,
// per-merchant preferences).
package credstore
