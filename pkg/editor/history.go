package editor

import "github.com/alecap92/fcrm-automations/pkg/models"

// maxHistory bounds the undo stack. Pushing beyond it evicts the oldest
// snapshot (sliding window).
const maxHistory = 50

// Snapshot is a full copy of graph and metadata state. Full snapshots trade
// memory for correctness: graphs stay small (tens of nodes), so an O(n) copy
// per transition is cheaper than tracking inverse operations.
type Snapshot struct {
	Nodes       []models.Node
	Edges       []models.Edge
	Name        string
	Description string
}

type history struct {
	entries []Snapshot
	cursor  int
}

func newHistory() *history {
	return &history{cursor: -1}
}

// push records a snapshot, discarding any redo branch beyond the cursor.
func (h *history) push(s Snapshot) {
	h.entries = append(h.entries[:h.cursor+1], s)

	if len(h.entries) > maxHistory {
		h.entries = h.entries[len(h.entries)-maxHistory:]
	}

	h.cursor = len(h.entries) - 1
}

// undo moves the cursor back and returns the snapshot to restore.
func (h *history) undo() (Snapshot, bool) {
	if !h.canUndo() {
		return Snapshot{}, false
	}

	h.cursor--

	return h.entries[h.cursor], true
}

// redo moves the cursor forward and returns the snapshot to restore.
func (h *history) redo() (Snapshot, bool) {
	if !h.canRedo() {
		return Snapshot{}, false
	}

	h.cursor++

	return h.entries[h.cursor], true
}

func (h *history) canUndo() bool {
	return h.cursor > 0
}

func (h *history) canRedo() bool {
	return len(h.entries) > 0 && h.cursor < len(h.entries)-1
}

func (h *history) reset() {
	h.entries = nil
	h.cursor = -1
}

func (h *history) len() int {
	return len(h.entries)
}
