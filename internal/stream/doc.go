// Package stream maintains the live SSE subscription to the platform's
// per-merchant event stream and turns named wire events into typed events.
//
// One Connection manages at most one open subscription at a time. Connecting
// to a different merchant closes the previous subscription first; connecting
// to the same merchant while open is a no-op.
//
// Reconnection is deliberately delegated to the SSE transport's backoff -
// no retry policy is layered on top. Events are fire-and-forget: a payload
// that fails to decode is dropped with a warning and the subscription stays
// open; there is no acknowledgment or replay. The worst-case failure mode is
// stale data, recoverable by a manual list refresh.
package stream
