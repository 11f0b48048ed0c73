package model

import "time"

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderPending       OrderStatus = "PENDING"
	OrderInPreparation OrderStatus = "IN_PREPARATION"
	OrderReady         OrderStatus = "READY"
	OrderDelivering    OrderStatus = "DELIVERING"
	OrderDelivered     OrderStatus = "DELIVERED"
	OrderCancelled     OrderStatus = "CANCELLED"
)

// orderLifecycle is the forward progression of order statuses.
// CANCELLED is reachable from any non-terminal state and is not part
// of the linear progression.
var orderLifecycle = []OrderStatus{
	OrderPending,
	OrderInPreparation,
	OrderReady,
	OrderDelivering,
	OrderDelivered,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	if s == OrderCancelled {
		return true
	}
	for _, st := range orderLifecycle {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Next returns the next status in the linear lifecycle.
// Returns ("", false) for terminal or unknown statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range orderLifecycle {
		if st == s && i+1 < len(orderLifecycle) {
			return orderLifecycle[i+1], true
		}
	}
	return "", false
}

// CanTransition reports whether an order may move from s to target.
// Forward moves follow the linear lifecycle one step at a time;
// cancellation is allowed from any non-terminal state.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	if target == OrderCancelled {
		return !s.Terminal()
	}
	next, ok := s.Next()
	return ok && next == target
}

// PaymentState is the derived payment sub-state of an order.
type PaymentState string

const (
	PaymentNone     PaymentState = "NO_PROOF"
	PaymentAwaiting PaymentState = "AWAITING_VERIFICATION"
	PaymentVerified PaymentState = "VERIFIED"
	PaymentRejected PaymentState = "REJECTED"
)

// OrderItemOption is a selected option on a line item (e.g. size, extras).
type OrderItemOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrderItem is one line of an order. Items are immutable once created and
// only carried by full fetches and order_created events, never by
// order_updated events.
type OrderItem struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Quantity  int               `json:"quantity"`
	UnitPrice float64           `json:"unitPrice"`
	Options   []OrderItemOption `json:"options,omitempty"`
}

// OrderTimelineEntry records a status change on an order.
type OrderTimelineEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// Order is a customer order placed through a WhatsApp session.
type Order struct {
	ID            string      `json:"id"`
	MerchantID    string      `json:"merchantId"`
	CustomerPhone string      `json:"customerPhone"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"createdAt"`
	DeliveryType  string      `json:"deliveryType,omitempty"` // "DELIVERY" | "PICKUP"
	Address       string      `json:"address,omitempty"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Notes         string      `json:"notes,omitempty"`

	// Payment proof / verification sub-state.
	PaymentProofURL      string `json:"paymentProofUrl,omitempty"`
	AwaitingPaymentProof bool   `json:"awaitingPaymentProof"`
	PaymentVerified      bool   `json:"paymentVerified"`
	PaymentRejected      bool   `json:"paymentRejected"`

	Items    []OrderItem          `json:"items,omitempty"`
	Timeline []OrderTimelineEntry `json:"timeline,omitempty"`
}

// PaymentState derives the payment sub-state from the proof/verification flags.
func (o *Order) PaymentState() PaymentState {
	switch {
	case o.PaymentVerified:
		return PaymentVerified
	case o.PaymentRejected:
		return PaymentRejected
	case o.AwaitingPaymentProof || o.PaymentProofURL != "":
		return PaymentAwaiting
	default:
		return PaymentNone
	}
}

// Clone returns a deep copy of the order. Merge operations use Clone to
// guarantee the existing value is never mutated.
func (o Order) Clone() Order {
	out := o
	if o.Items != nil {
		out.Items = make([]OrderItem, len(o.Items))
		copy(out.Items, o.Items)
		for i, it := range o.Items {
			if it.Options != nil {
				opts := make([]OrderItemOption, len(it.Options))
				copy(opts, it.Options)
				out.Items[i].Options = opts
			}
		}
	}
	if o.Timeline != nil {
		out.Timeline = make([]OrderTimelineEntry, len(o.Timeline))
		copy(out.Timeline, o.Timeline)
	}
	return out
}
