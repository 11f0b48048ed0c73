package testutil

import (
	"fmt"
	"sync"
)

// IDSequence generates predictable identifiers for tests: "toast-1",
// "toast-2", and so on. Production code uses random UUIDs; tests swap in a
// sequence so assertions and golden files stay stable.
//
// Thread-safety: Next is safe for concurrent use.
type IDSequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewIDSequence creates a sequence with the given prefix.
// An empty prefix defaults to "id".
func NewIDSequence(prefix string) *IDSequence {
	if prefix == "" {
		prefix = "id"
	}
	return &IDSequence{prefix: prefix}
}

// Next returns the next identifier in the sequence, starting at 1.
func (s *IDSequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}
