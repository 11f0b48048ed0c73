// Package event defines the typed tagged-union events carried on the
// per-merchant SSE stream, and the decoder from named wire events to them.
//
// Both the stream transport (producer) and the live store (consumer) depend
// on this package; neither depends on the other.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/libilabs/console/internal/model"
)

// Kind identifies the wire event type.
type Kind string

const (
	// KindConnected is the server's connection acknowledgment. It carries
	// no entity payload and causes no state change.
	KindConnected Kind = "connected"

	KindOrderCreated         Kind = "order_created"
	KindOrderUpdated         Kind = "order_updated"
	KindPaymentVerified      Kind = "payment_verified"
	KindPaymentProofUploaded Kind = "payment_proof_uploaded"
	KindSessionCreated       Kind = "session_created"
	KindSessionUpdated       Kind = "session_updated"
	KindMessageReceived      Kind = "message_received"

	// KindDefault is an unnamed wire event. Decoded only for diagnostics,
	// otherwise ignored.
	KindDefault Kind = ""
)

// PaymentProofPayload is the body of a payment_proof_uploaded event.
// It references the order by id instead of carrying an order snapshot.
type PaymentProofPayload struct {
	OrderID         string `json:"orderId"`
	PaymentProofURL string `json:"paymentProofUrl,omitempty"`
}

// MessagePayload is the body of a message_received event.
type MessagePayload struct {
	SessionID string               `json:"sessionId"`
	Message   model.SessionMessage `json:"message"`
}

// Event is the tagged union delivered by the stream connection.
// Exactly one payload field is set, matching Kind:
//
//	order_created, order_updated, payment_verified → Order
//	payment_proof_uploaded                         → PaymentProof
//	session_created, session_updated               → Session
//	message_received                               → Message
//	connected, default                             → none (Raw only)
type Event struct {
	Kind         Kind
	ReceivedAt   time.Time
	Order        *model.Order
	Session      *model.Session
	PaymentProof *PaymentProofPayload
	Message      *MessagePayload

	// Raw is the undecoded wire payload, retained for diagnostics.
	Raw []byte
}

// OrderKind reports whether the kind carries an order payload.
func (k Kind) OrderKind() bool {
	return k == KindOrderCreated || k == KindOrderUpdated || k == KindPaymentVerified
}

// SessionKind reports whether the kind carries a session payload.
func (k Kind) SessionKind() bool {
	return k == KindSessionCreated || k == KindSessionUpdated
}

// Decode parses a named wire event into a typed Event.
//
// Unknown and unnamed event names decode to KindConnected/KindDefault events
// with only Raw set; they are valid and cause no state change. A malformed
// payload for a known kind returns an error so the caller can drop the single
// event and keep the connection open (fire-and-forget semantics: no retry,
// no acknowledgment).
func Decode(name string, data []byte, now time.Time) (Event, error) {
	ev := Event{Kind: Kind(name), ReceivedAt: now, Raw: data}

	switch ev.Kind {
	case KindOrderCreated, KindOrderUpdated, KindPaymentVerified:
		var o model.Order
		if err := json.Unmarshal(data, &o); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", name, err)
		}
		if o.ID == "" {
			return Event{}, fmt.Errorf("decode %s: missing order id", name)
		}
		ev.Order = &o

	case KindPaymentProofUploaded:
		var p PaymentProofPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", name, err)
		}
		if p.OrderID == "" {
			return Event{}, fmt.Errorf("decode %s: missing order id", name)
		}
		ev.PaymentProof = &p

	case KindSessionCreated, KindSessionUpdated:
		var s model.Session
		if err := json.Unmarshal(data, &s); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", name, err)
		}
		if s.ID == "" {
			return Event{}, fmt.Errorf("decode %s: missing session id", name)
		}
		ev.Session = &s

	case KindMessageReceived:
		var m MessagePayload
		if err := json.Unmarshal(data, &m); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", name, err)
		}
		if m.SessionID == "" {
			return Event{}, fmt.Errorf("decode %s: missing session id", name)
		}
		ev.Message = &m

	case KindConnected, KindDefault:
		// Acknowledgment or unnamed event: payload is diagnostic only.

	default:
		// Unknown named event: tolerate it, keep Raw for diagnostics.
	}

	return ev, nil
}
