package callctx

import (
	"sync"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// stackTraceMarker terminates a truncated stack trace.
const stackTraceMarker = "..."

// Stack is the ordered list of procedures currently executing in one call
// tree. Entries are borrowed, never owned. Procedures are compared by id.
type Stack struct {
	mu    sync.RWMutex
	items []procedure.Procedure
}

// Push appends proc to the top of the stack.
func (s *Stack) Push(proc procedure.Procedure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, proc)
}

// Pop removes the most recent entry. Popping an empty stack is a no-op.
func (s *Stack) Pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.items); n > 0 {
		s.items[n-1] = nil
		s.items = s.items[:n-1]
	}
}

// Contains returns true if a procedure with the same id is on the stack.
func (s *Stack) Contains(proc procedure.Procedure) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		if p.ID() == proc.ID() {
			return true
		}
	}
	return false
}

// Height returns the number of entries, which equals the call depth.
func (s *Stack) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Top returns the most recent entry, or nil.
func (s *Stack) Top() procedure.Procedure {
	return s.TopAt(0)
}

// TopAt returns the entry offset positions below the top, or nil if the
// offset is out of range.
func (s *Stack) TopAt(offset int) procedure.Procedure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := len(s.items) - 1 - offset
	if offset < 0 || i < 0 {
		return nil
	}
	return s.items[i]
}

// Bottom returns the first entry, or nil.
func (s *Stack) Bottom() procedure.Procedure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return nil
	}
	return s.items[0]
}

// ToStackTrace returns up to maxSize procedure ids, newest first. A trailing
// "..." marker is added when older entries were left out.
func (s *Stack) ToStackTrace(maxSize int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(len(s.items), max(maxSize, 0))
	trace := make([]string, 0, n+1)
	for i := len(s.items) - 1; i >= len(s.items)-n; i-- {
		trace = append(trace, s.items[i].ID())
	}
	if n < len(s.items) {
		trace = append(trace, stackTraceMarker)
	}
	return trace
}
