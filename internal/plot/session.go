package plot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Session is the comparison set a user builds up across evaluations. It is
// owned by the caller; nothing in this package keeps one. Each member should
// be its own evaluator instance so reconfiguring the live evaluator leaves
// the members untouched.
type Session struct {
	ID      uuid.UUID
	Created time.Time
	members []types.Evaluator
}

// NewSession returns an empty session with a time-ordered ID.
func NewSession() (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}
	return &Session{ID: id, Created: time.Now().UTC()}, nil
}

// Add appends e to the comparison set.
func (s *Session) Add(e types.Evaluator) {
	s.members = append(s.members, e)
}

// Remove drops every member with the given identifier and reports how many
// were removed.
func (s *Session) Remove(identifier string) int {
	kept := s.members[:0]
	for _, m := range s.members {
		if m.Identifier() != identifier {
			kept = append(kept, m)
		}
	}
	removed := len(s.members) - len(kept)
	clear(s.members[len(kept):])
	s.members = kept
	return removed
}

// Reset empties the comparison set. The ID is kept.
func (s *Session) Reset() {
	s.members = nil
}

// Members returns a snapshot of the comparison set in insertion order.
func (s *Session) Members() []types.Evaluator {
	return append([]types.Evaluator(nil), s.members...)
}

// Len returns the number of members.
func (s *Session) Len() int { return len(s.members) }
