package dispatch

import (
	"fmt"
	"testing"
)

func TestStateLifecycle(t *testing.T) {
	s := NewState()

	s.Begin("a")
	s.Begin("b")
	if !s.Busy() || s.InFlight() != 2 {
		t.Errorf("busy=%v inflight=%d", s.Busy(), s.InFlight())
	}

	s.Finish("a", StateSuccess)
	if !s.Busy() {
		t.Error("still one request in flight")
	}
	if ts, ok := s.Terminal("a"); !ok || ts != StateSuccess {
		t.Errorf("terminal(a) = %q ok=%v", ts, ok)
	}

	s.Finish("b", StateError)
	if s.Busy() {
		t.Error("no requests in flight")
	}
	if s.Last() != StateError {
		t.Errorf("last = %q", s.Last())
	}
}

func TestStateReuseDropsOldTerminal(t *testing.T) {
	s := NewState()
	s.Begin("a")
	s.Finish("a", StateError)

	s.Begin("a")
	if _, ok := s.Terminal("a"); ok {
		t.Error("re-begun request must not keep its old terminal state")
	}
	s.Finish("a", StateSuccess)
	if ts, _ := s.Terminal("a"); ts != StateSuccess {
		t.Errorf("terminal = %q", ts)
	}
}

func TestStateTerminalEntriesBounded(t *testing.T) {
	s := NewState()

	total := maxTerminalEntries * 2
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("req-%d", i)
		s.Begin(id)
		s.Finish(id, StateSuccess)
	}

	if _, ok := s.Terminal("req-0"); ok {
		t.Error("oldest terminal entry should have been evicted")
	}
	if _, ok := s.Terminal(fmt.Sprintf("req-%d", total-1)); !ok {
		t.Error("newest terminal entry must be retained")
	}

	kept := 0
	for i := 0; i < total; i++ {
		if _, ok := s.Terminal(fmt.Sprintf("req-%d", i)); ok {
			kept++
		}
	}
	if kept != maxTerminalEntries {
		t.Errorf("retained %d terminal entries, want %d", kept, maxTerminalEntries)
	}
}
