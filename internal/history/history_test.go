package history

import (
	"testing"

	"dconn.dev/hexboard/internal/generation"
)

func snap(n int) Snapshot {
	return Snapshot{{X: 0, Y: 0, Resource: generation.ResourceOre, Number: n}}
}

// number reads the token off a one-tile snapshot returned by a move
func number(t *testing.T) func(Snapshot, bool) int {
	return func(s Snapshot, ok bool) int {
		t.Helper()
		if !ok {
			t.Fatalf("expected a snapshot")
		}
		return s[0].Number
	}
}

func TestEmptyHistory(t *testing.T) {
	h := New()
	if h.Index() != -1 || h.Len() != 0 {
		t.Fatalf("index=%d len=%d", h.Index(), h.Len())
	}
	if h.CanGoBack() || h.CanGoForward() {
		t.Fatalf("empty history cannot move")
	}
	if _, ok := h.Current(); ok {
		t.Fatalf("empty history has no current snapshot")
	}
	if _, ok := h.Back(); ok {
		t.Fatalf("Back on empty history should fail")
	}
}

func TestNavigation(t *testing.T) {
	h := New()
	for i := 1; i <= 3; i++ {
		h.Push(snap(i))
	}
	if h.CanGoForward() || !h.CanGoBack() || h.Index() != 2 {
		t.Fatalf("after pushes: index=%d", h.Index())
	}

	if got := number(t)(h.Back()); got != 2 {
		t.Fatalf("back: got %d", got)
	}
	if got := number(t)(h.Back()); got != 1 {
		t.Fatalf("back: got %d", got)
	}
	if _, ok := h.Back(); ok {
		t.Fatalf("Back at the start should be a no-op")
	}
	if h.Index() != 0 {
		t.Fatalf("cursor moved past the start: %d", h.Index())
	}

	if got := number(t)(h.Forward()); got != 2 {
		t.Fatalf("forward: got %d", got)
	}
	if !h.CanGoForward() {
		t.Fatalf("expected to be able to go forward")
	}
}

func TestPushTruncatesForwardBranch(t *testing.T) {
	h := New()
	h.Push(snap(1))
	h.Push(snap(2))
	h.Push(snap(3))
	h.Back()
	h.Back()

	h.Push(snap(4))
	if h.Len() != 2 || h.Index() != 1 {
		t.Fatalf("len=%d index=%d, want 2 and 1", h.Len(), h.Index())
	}
	if h.CanGoForward() {
		t.Fatalf("forward branch should be gone")
	}
	if got := number(t)(h.Back()); got != 1 {
		t.Fatalf("back: got %d", got)
	}
}

func TestReset(t *testing.T) {
	h := New()
	h.Push(snap(1))
	h.Push(snap(2))
	h.Reset(snap(9))
	if h.Len() != 1 || h.Index() != 0 || h.CanGoBack() || h.CanGoForward() {
		t.Fatalf("len=%d index=%d", h.Len(), h.Index())
	}
	if got := number(t)(h.Current()); got != 9 {
		t.Fatalf("current: got %d", got)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	h := New()
	s := snap(5)
	h.Push(s)
	s[0].Number = 6

	cur, _ := h.Current()
	if cur[0].Number != 5 {
		t.Fatalf("history shares the caller's slice")
	}
	cur[0].Number = 8
	if again, _ := h.Current(); again[0].Number != 5 {
		t.Fatalf("Current exposes internal storage")
	}
}
