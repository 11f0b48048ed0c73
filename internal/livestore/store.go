package livestore

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/libilabs/console/internal/model"
)

// Store holds the live order and session collections for one merchant.
//
// List views are id-ordered slices: live-inserted entities are prepended
// (newest first), replaced entities keep their position. Collection sizes
// are bounded by one merchant's working set (hundreds, not millions), so
// the O(n) slice operations are fine.
type Store struct {
	mu     sync.RWMutex
	logger *slog.Logger

	orders          map[string]model.Order
	orderIDs        []string
	unseenOrders    map[string]struct{}
	selectedOrderID string

	sessions          map[string]model.Session
	sessionIDs        []string
	unseenSessions    map[string]struct{}
	selectedSessionID string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for contract-violation and drop warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		logger:         slog.Default(),
		orders:         make(map[string]model.Order),
		unseenOrders:   make(map[string]struct{}),
		sessions:       make(map[string]model.Session),
		unseenSessions: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedOrders replaces the order collection with a REST fetch result,
// preserving the given order. Seeded entities are not marked unseen.
func (s *Store) SeedOrders(orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[string]model.Order, len(orders))
	s.orderIDs = make([]string, 0, len(orders))
	for _, o := range orders {
		if _, dup := s.orders[o.ID]; dup {
			continue
		}
		s.orders[o.ID] = o.Clone()
		s.orderIDs = append(s.orderIDs, o.ID)
	}
}

// SeedSessions replaces the session collection with a REST fetch result.
func (s *Store) SeedSessions(sessions []model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]model.Session, len(sessions))
	s.sessionIDs = make([]string, 0, len(sessions))
	for _, sess := range sessions {
		if _, dup := s.sessions[sess.ID]; dup {
			continue
		}
		s.sessions[sess.ID] = sess.Clone()
		s.sessionIDs = append(s.sessionIDs, sess.ID)
	}
}

// UpsertOrder commits a merged order: replaces in place when the id is
// known, otherwise prepends (live inserts are newest-first).
func (s *Store) UpsertOrder(o model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertOrderLocked(o)
}

func (s *Store) upsertOrderLocked(o model.Order) {
	if _, ok := s.orders[o.ID]; !ok {
		s.orderIDs = append([]string{o.ID}, s.orderIDs...)
	}
	s.orders[o.ID] = o
}

// UpsertSession commits a merged session with the same placement rules
// as UpsertOrder.
func (s *Store) UpsertSession(sess model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertSessionLocked(sess)
}

func (s *Store) upsertSessionLocked(sess model.Session) {
	if _, ok := s.sessions[sess.ID]; !ok {
		s.sessionIDs = append([]string{sess.ID}, s.sessionIDs...)
	}
	s.sessions[sess.ID] = sess
}

// Order returns the order with the given id.
func (s *Store) Order(id string) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return o.Clone(), true
}

// Orders returns the order list view, live inserts first.
func (s *Store) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		out = append(out, s.orders[id].Clone())
	}
	return out
}

// Session returns the session with the given id.
func (s *Store) Session(id string) (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, false
	}
	return sess.Clone(), true
}

// Sessions returns the session list view, live inserts first.
func (s *Store) Sessions() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Session, 0, len(s.sessionIDs))
	for _, id := range s.sessionIDs {
		out = append(out, s.sessions[id].Clone())
	}
	return out
}

// SelectOrder points the order selection at id. Selection is by id, not by
// snapshot: later upserts for the same id are visible through SelectedOrder.
// Returns false if the id is unknown (the selection is left unchanged).
func (s *Store) SelectOrder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return false
	}
	s.selectedOrderID = id
	return true
}

// SelectedOrder returns the current value of the selected order, if any.
func (s *Store) SelectedOrder() (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedOrderID == "" {
		return model.Order{}, false
	}
	o, ok := s.orders[s.selectedOrderID]
	if !ok {
		return model.Order{}, false
	}
	return o.Clone(), true
}

// SelectSession points the session selection at id.
func (s *Store) SelectSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.selectedSessionID = id
	return true
}

// SelectedSession returns the current value of the selected session, if any.
func (s *Store) SelectedSession() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedSessionID == "" {
		return model.Session{}, false
	}
	sess, ok := s.sessions[s.selectedSessionID]
	if !ok {
		return model.Session{}, false
	}
	return sess.Clone(), true
}

// MarkOrderSeen clears the unseen marker for one order id.
// No-op if the id is not marked.
func (s *Store) MarkOrderSeen(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.unseenOrders, id)
}

// MarkSessionSeen clears the unseen marker for one session id.
func (s *Store) MarkSessionSeen(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.unseenSessions, id)
}

// UnseenOrderIDs returns the unseen order ids, sorted for determinism.
func (s *Store) UnseenOrderIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.unseenOrders)
}

// UnseenSessionIDs returns the unseen session ids, sorted for determinism.
func (s *Store) UnseenSessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.unseenSessions)
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
