package roster

import (
	"sync"

	"go.uber.org/zap"
)

// Workspaces hands each operator their own Roster so edit buffers never
// leak between sessions.
type Workspaces struct {
	store  Store
	logger *zap.Logger

	mu      sync.Mutex
	rosters map[string]*Roster
}

func NewWorkspaces(store Store, logger *zap.Logger) *Workspaces {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspaces{
		store:   store,
		logger:  logger,
		rosters: make(map[string]*Roster),
	}
}

// For returns the operator's roster, creating an unloaded one on first use.
func (w *Workspaces) For(operatorID string) *Roster {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.rosters[operatorID]; ok {
		return r
	}
	r := New(w.store, operatorID, w.logger)
	w.rosters[operatorID] = r
	return r
}

// Drop forgets the operator's roster, discarding any pending draft.
func (w *Workspaces) Drop(operatorID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.rosters, operatorID)
}

// Len reports how many operators currently hold a roster.
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rosters)
}
