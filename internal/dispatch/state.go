package dispatch

import "sync"

// TerminalState is the outcome marker applied exactly once when a request
// completes.
type TerminalState string

const (
	StateSuccess TerminalState = "success"
	StateError   TerminalState = "error"
)

// maxTerminalEntries bounds the retained terminal states so a long-lived
// process polling on an interval does not accumulate one entry per request.
const maxTerminalEntries = 128

// State tracks request lifecycle for presentation. Every request is tracked
// by its own ID and the aggregate busy view is derived, so one request
// finishing never clears another's loading state. Terminal states are kept
// for the most recent requests only, oldest evicted first.
type State struct {
	mu       sync.Mutex
	active   map[string]struct{}
	terminal map[string]TerminalState
	order    []string
	last     TerminalState
}

// NewState creates an empty lifecycle tracker.
func NewState() *State {
	return &State{
		active:   make(map[string]struct{}),
		terminal: make(map[string]TerminalState),
	}
}

// Begin marks the request as in flight and drops any previous terminal
// state recorded for it.
func (s *State) Begin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id] = struct{}{}
	if _, seen := s.terminal[id]; seen {
		delete(s.terminal, id)
		for i, prev := range s.order {
			if prev == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Finish clears the in-flight mark and records the terminal state. Every
// begun request must finish on exactly one path.
func (s *State) Finish(id string, state TerminalState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
	if _, seen := s.terminal[id]; !seen {
		s.order = append(s.order, id)
	}
	s.terminal[id] = state
	s.last = state
	for len(s.order) > maxTerminalEntries {
		delete(s.terminal, s.order[0])
		s.order = s.order[1:]
	}
}

// Busy reports whether any request is in flight.
func (s *State) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) > 0
}

// InFlight returns the number of active requests.
func (s *State) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Terminal returns the terminal state recorded for a request.
func (s *State) Terminal(id string) (TerminalState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.terminal[id]
	return ts, ok
}

// Last returns the most recently recorded terminal state, the aggregate
// view a single shared indicator would show.
func (s *State) Last() TerminalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
