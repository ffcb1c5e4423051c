// Package history keeps the boards a session has shown, with a cursor for
// back and forward navigation.
package history

import (
	"slices"

	"dconn.dev/hexboard/internal/generation"
)

// Snapshot is a detached copy of a board's tiles
type Snapshot []generation.TileState

// History is an ordered list of snapshots and a cursor into it.
// The cursor is -1 while the history is empty.
type History struct {
	snapshots []Snapshot
	cursor    int
}

// New returns an empty history
func New() *History {
	return &History{cursor: -1}
}

// Push records a snapshot at the end. Anything after the cursor is dropped
// first, so pushing after going back starts a new branch.
func (h *History) Push(s Snapshot) {
	h.snapshots = append(h.snapshots[:h.cursor+1], slices.Clone(s))
	h.cursor = len(h.snapshots) - 1
}

// Reset discards every snapshot and starts over from s
func (h *History) Reset(s Snapshot) {
	h.snapshots = []Snapshot{slices.Clone(s)}
	h.cursor = 0
}

// Current returns the snapshot under the cursor
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 {
		return nil, false
	}
	return slices.Clone(h.snapshots[h.cursor]), true
}

// Back moves the cursor one step back and returns the snapshot there
func (h *History) Back() (Snapshot, bool) {
	if !h.CanGoBack() {
		return nil, false
	}
	h.cursor--
	return h.Current()
}

// Forward moves the cursor one step forward and returns the snapshot there
func (h *History) Forward() (Snapshot, bool) {
	if !h.CanGoForward() {
		return nil, false
	}
	h.cursor++
	return h.Current()
}

// CanGoBack reports whether an older snapshot exists
func (h *History) CanGoBack() bool {
	return h.cursor > 0
}

// CanGoForward reports whether a newer snapshot exists
func (h *History) CanGoForward() bool {
	return h.cursor < len(h.snapshots)-1
}

// Len returns the number of snapshots
func (h *History) Len() int {
	return len(h.snapshots)
}

// Index returns the cursor position, -1 when empty
func (h *History) Index() int {
	return h.cursor
}
