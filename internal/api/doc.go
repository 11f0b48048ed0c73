// Package api is the typed REST client for the Libi platform.
//
// Every call takes a context, sends the bearer token when one is set, and
// decodes JSON responses into internal/model types. Non-2xx responses come
// back as a *StatusError; a 401 additionally matches ErrUnauthorized so the
// caller can drop stored credentials and ask the operator to log in again.
//
// The client performs no retries. The live stream has its own transport
// backoff, and REST actions here are operator-initiated, where a failed
// call should surface immediately rather than silently repeat.
package api
