package livestore

import (
	"github.com/libilabs/console/internal/event"
	"github.com/libilabs/console/internal/merge"
	"github.com/libilabs/console/internal/model"
)

// Change describes what a single stream event did to the store. The watch
// loop hands it to the effects layer; nothing here performs side effects.
type Change struct {
	Kind event.Kind

	// Committed values after the merge, nil when the event touched no
	// entity of that type.
	Order   *model.Order
	Session *model.Session
	Message *model.SessionMessage

	// Created is true when the entity was new to its collection.
	Created bool

	// Ignored is true when the event caused no state change (connection
	// acknowledgments, unnamed events, or references to unknown entities).
	Ignored bool

	Violations []merge.Violation
}

// Apply routes one decoded stream event through the merge rules and commits
// the result.
//
// CRITICAL: call Apply from exactly one goroutine. Ordering between two
// events for the same entity id is FIFO in arrival order with
// last-write-wins per field; the single-writer discipline is what makes
// that guarantee hold.
func (s *Store) Apply(ev event.Event) Change {
	switch {
	case ev.Kind.OrderKind():
		return s.applyOrder(ev)
	case ev.Kind == event.KindPaymentProofUploaded:
		return s.applyPaymentProof(ev)
	case ev.Kind.SessionKind():
		return s.applySession(ev)
	case ev.Kind == event.KindMessageReceived:
		return s.applyMessage(ev)
	default:
		// connected, default, or unknown: diagnostic only.
		return Change{Kind: ev.Kind, Ignored: true}
	}
}

func (s *Store) applyOrder(ev event.Event) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *model.Order
	if cur, ok := s.orders[ev.Order.ID]; ok {
		cur := cur.Clone()
		existing = &cur
	}

	merged := merge.MergeOrder(existing, *ev.Order, ev.Kind)
	s.upsertOrderLocked(merged)
	s.unseenOrders[merged.ID] = struct{}{}

	return Change{
		Kind:    ev.Kind,
		Order:   &merged,
		Created: existing == nil,
	}
}

func (s *Store) applyPaymentProof(ev event.Event) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[ev.PaymentProof.OrderID]
	if !ok {
		// Proof for an order we have never fetched: nothing to update.
		// Recoverable by a manual refresh.
		s.logger.Warn("payment proof for unknown order, dropping",
			"order_id", ev.PaymentProof.OrderID,
		)
		return Change{Kind: ev.Kind, Ignored: true}
	}

	merged := merge.ApplyPaymentProof(existing, *ev.PaymentProof)
	s.upsertOrderLocked(merged)
	s.unseenOrders[merged.ID] = struct{}{}

	return Change{Kind: ev.Kind, Order: &merged}
}

func (s *Store) applySession(ev event.Event) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *model.Session
	if cur, ok := s.sessions[ev.Session.ID]; ok {
		cur := cur.Clone()
		existing = &cur
	}

	merged, violations := merge.MergeSession(existing, *ev.Session, ev.Kind)
	for _, v := range violations {
		s.logger.Warn("session payload contract violation",
			"session_id", merged.ID,
			"field", v.Field,
			"reason", v.Reason,
		)
	}

	s.upsertSessionLocked(merged)
	s.unseenSessions[merged.ID] = struct{}{}

	return Change{
		Kind:       ev.Kind,
		Session:    &merged,
		Created:    existing == nil,
		Violations: violations,
	}
}

func (s *Store) applyMessage(ev event.Event) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[ev.Message.SessionID]
	if !ok {
		s.logger.Warn("message for unknown session, dropping",
			"session_id", ev.Message.SessionID,
		)
		return Change{Kind: ev.Kind, Ignored: true}
	}

	merged := merge.AppendMessage(existing, ev.Message.Message)
	s.upsertSessionLocked(merged)
	s.unseenSessions[merged.ID] = struct{}{}

	msg := ev.Message.Message
	return Change{Kind: ev.Kind, Session: &merged, Message: &msg}
}
