// Package model defines the domain types exchanged with the Libi platform:
// orders, sessions, merchants, menus, and the supporting admin resources.
//
// These types mirror the REST and SSE wire shapes. Fields that may be absent
// from partial event payloads and whose absence is meaningful (rather than a
// zero value) are pointer-typed; everything else uses plain values.
package model
