package model

import "time"

// SessionStatus is the conversation lifecycle state.
type SessionStatus string

const (
	SessionNew             SessionStatus = "NEW"
	SessionCollectingItems SessionStatus = "COLLECTING_ITEMS"
	SessionReviewing       SessionStatus = "REVIEWING"
	SessionConfirmed       SessionStatus = "CONFIRMED"
	SessionCancelled       SessionStatus = "CANCELLED"
	SessionExpired         SessionStatus = "EXPIRED"
)

// ValidSessionStatus reports whether s is a known session status.
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionNew, SessionCollectingItems, SessionReviewing,
		SessionConfirmed, SessionCancelled, SessionExpired:
		return true
	}
	return false
}

// MessageRole identifies who produced a session message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// SessionMessage is one entry in a session's append-only message log.
type SessionMessage struct {
	ID        string      `json:"id,omitempty"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderSummary is the abbreviated order view linked from a session.
type OrderSummary struct {
	ID     string      `json:"id"`
	Status OrderStatus `json:"status"`
	Total  float64     `json:"total"`
}

// Session is one WhatsApp conversation between a customer and the assistant.
//
// IsManualMode is pointer-typed on purpose: partial event payloads may omit
// the flag, and "absent" must stay distinguishable from "false". The merge
// layer treats an absent flag as a data-contract violation rather than
// guessing a default.
type Session struct {
	ID                string           `json:"id"`
	MerchantID        string           `json:"merchantId"`
	WhatsAppLineID    string           `json:"whatsappLineId,omitempty"`
	CustomerPhone     string           `json:"customerPhone"`
	Status            SessionStatus    `json:"status"`
	IsManualMode      *bool            `json:"isManualMode,omitempty"`
	LastInteractionAt time.Time        `json:"lastInteractionAt"`
	Messages          []SessionMessage `json:"messages,omitempty"`
	Orders            []OrderSummary   `json:"orders,omitempty"`
}

// ManualMode reports the manual-mode flag, defaulting to false when the
// flag has never been observed. Callers that need to distinguish the two
// cases should inspect IsManualMode directly.
func (s *Session) ManualMode() bool {
	return s.IsManualMode != nil && *s.IsManualMode
}

// Clone returns a deep copy of the session. Merge operations use Clone to
// guarantee the existing value is never mutated.
func (s Session) Clone() Session {
	out := s
	if s.IsManualMode != nil {
		v := *s.IsManualMode
		out.IsManualMode = &v
	}
	if s.Messages != nil {
		out.Messages = make([]SessionMessage, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	if s.Orders != nil {
		out.Orders = make([]OrderSummary, len(s.Orders))
		copy(out.Orders, s.Orders)
	}
	return out
}
