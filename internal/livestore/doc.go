// Package livestore owns the in-memory live collections for one merchant:
// orders, sessions (with their message logs), selection pointers, and the
// unseen-id sets that drive the "new activity" markers.
//
// ARCHITECTURE:
//
// Single-writer apply loop. All mutation flows through Apply, which is meant
// to be called from exactly one goroutine (the watch dispatch loop). Apply
// routes each typed stream event through the pure merge rules and commits
// the result, so two events for the same id resolve last-write-wins in
// arrival order. Read methods are guarded by an RWMutex so rendering
// goroutines can snapshot safely while the loop runs.
//
// Stores are plain values constructed per watch session and injected where
// needed; there is no process-wide instance. Tests build isolated stores.
//
// The effects layer (notify) is deliberately not called from here: Apply
// returns a Change describing what was committed, and the caller decides
// what feedback to emit. This keeps the reducer independently testable.
package livestore
