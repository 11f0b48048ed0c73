package merge

import (
	"github.com/libilabs/console/internal/event"
	"github.com/libilabs/console/internal/model"
)

// MergeOrder combines a known order with an incoming event payload.
//
// Rules per event kind:
//
//	order_created (or no existing order): the payload is a full snapshot
//	and is taken as-is.
//
//	order_updated: shallow merge. Scalars take the incoming value when the
//	payload carries one, but Items is ALWAYS preserved from the existing
//	order - update payloads are contractually known not to carry items.
//
//	payment_verified: full replacement; the server is authoritative for
//	the final payment state.
//
// payment_proof_uploaded events carry a reference payload, not an order
// snapshot; see ApplyPaymentProof.
//
// Pure: existing is never mutated; the result shares no mutable state
// with either input.
func MergeOrder(existing *model.Order, incoming model.Order, kind event.Kind) model.Order {
	if existing == nil || kind == event.KindOrderCreated || kind == event.KindPaymentVerified {
		return incoming.Clone()
	}

	out := incoming.Clone()

	// The update payload never carries items; keep what we know.
	out.Items = existing.Clone().Items

	// Preserve fields an abbreviated payload omitted. Status is exempt:
	// it is required on every order payload.
	if out.MerchantID == "" {
		out.MerchantID = existing.MerchantID
	}
	if out.CustomerPhone == "" {
		out.CustomerPhone = existing.CustomerPhone
	}
	if out.Total == 0 {
		out.Total = existing.Total
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = existing.CreatedAt
	}
	if out.DeliveryType == "" {
		out.DeliveryType = existing.DeliveryType
	}
	if out.Address == "" {
		out.Address = existing.Address
	}
	if out.PaymentMethod == "" {
		out.PaymentMethod = existing.PaymentMethod
	}
	if out.Notes == "" {
		out.Notes = existing.Notes
	}
	if out.PaymentProofURL == "" {
		out.PaymentProofURL = existing.PaymentProofURL
	}
	if out.Timeline == nil {
		out.Timeline = existing.Clone().Timeline
	}

	return out
}

// ApplyPaymentProof applies a payment_proof_uploaded event to an order.
//
// A fresh proof always resets verification, regardless of prior state: the
// order ends awaiting verification even if a previous proof had already been
// verified or rejected.
//
// Pure: existing is never mutated.
func ApplyPaymentProof(existing model.Order, proof event.PaymentProofPayload) model.Order {
	out := existing.Clone()
	out.PaymentProofURL = proof.PaymentProofURL
	out.AwaitingPaymentProof = true
	out.PaymentVerified = false
	out.PaymentRejected = false
	return out
}
