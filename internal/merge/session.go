package merge

import (
	"fmt"

	"github.com/libilabs/console/internal/event"
	"github.com/libilabs/console/internal/model"
)

// Violation reports a data-contract problem in an event payload. The merge
// still produces a usable result; the caller decides how loudly to complain.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

// MergeSession combines a known session with an incoming event payload.
//
// Scalar fields (status, isManualMode, lastInteractionAt, customerPhone)
// take the incoming value when the payload carries one. The messages and
// orders sub-collections are preserved from the existing session whenever
// the payload omits or nulls them - a partial session event must never
// wipe out fetched message history.
//
// If the payload omits isManualMode on an update, the previous value is
// kept and a Violation is returned. Defaulting the flag to false here would
// silently mask a backend regression that drops mode flips, so the gap is
// surfaced instead of guessed.
//
// Pure: existing is never mutated.
func MergeSession(existing *model.Session, incoming model.Session, kind event.Kind) (model.Session, []Violation) {
	if existing == nil || kind == event.KindSessionCreated {
		return incoming.Clone(), nil
	}

	var violations []Violation
	out := incoming.Clone()
	prev := existing.Clone()

	if out.MerchantID == "" {
		out.MerchantID = prev.MerchantID
	}
	if out.WhatsAppLineID == "" {
		out.WhatsAppLineID = prev.WhatsAppLineID
	}
	if out.CustomerPhone == "" {
		out.CustomerPhone = prev.CustomerPhone
	}
	if out.Status == "" {
		out.Status = prev.Status
	}
	if out.LastInteractionAt.IsZero() {
		out.LastInteractionAt = prev.LastInteractionAt
	}

	if out.IsManualMode == nil {
		out.IsManualMode = prev.IsManualMode
		violations = append(violations, Violation{
			Field:  "isManualMode",
			Reason: "absent from session update payload; previous value kept",
		})
	}

	// Append-or-preserve, never null out.
	if out.Messages == nil {
		out.Messages = prev.Messages
	}
	if out.Orders == nil {
		out.Orders = prev.Orders
	}

	return out, violations
}

// AppendMessage appends a message to the session's append-only log and
// advances lastInteractionAt to the message timestamp.
//
// The log is never reordered or deduplicated: duplicate message ids from
// event redelivery are tolerated and left to presentation layers.
//
// Pure: existing is never mutated.
func AppendMessage(existing model.Session, msg model.SessionMessage) model.Session {
	out := existing.Clone()
	out.Messages = append(out.Messages, msg)
	out.LastInteractionAt = msg.CreatedAt
	return out
}
