package livestore

import "github.com/libilabs/console/internal/model"

// Snapshot is a point-in-time copy of the store, used by renderers and by
// golden tests. Serialization is deterministic: list views keep their
// display order and unseen sets are sorted.
type Snapshot struct {
	Orders            []model.Order   `json:"orders"`
	Sessions          []model.Session `json:"sessions"`
	UnseenOrders      []string        `json:"unseen_orders"`
	UnseenSessions    []string        `json:"unseen_sessions"`
	SelectedOrderID   string          `json:"selected_order_id,omitempty"`
	SelectedSessionID string          `json:"selected_session_id,omitempty"`
}

// Snapshot returns a consistent copy of the entire store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Orders:            make([]model.Order, 0, len(s.orderIDs)),
		Sessions:          make([]model.Session, 0, len(s.sessionIDs)),
		UnseenOrders:      sortedIDs(s.unseenOrders),
		UnseenSessions:    sortedIDs(s.unseenSessions),
		SelectedOrderID:   s.selectedOrderID,
		SelectedSessionID: s.selectedSessionID,
	}
	for _, id := range s.orderIDs {
		snap.Orders = append(snap.Orders, s.orders[id].Clone())
	}
	for _, id := range s.sessionIDs {
		snap.Sessions = append(snap.Sessions, s.sessions[id].Clone())
	}
	return snap
}
