package seed

import (
	"sync"

	"github.com/Veraticus/finance-tracker/internal/model"
)

// Registry is an append-only list of user ids created during one run.
// It is safe for concurrent use.
type Registry struct {
	ids []model.UserID
	mu  sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append records an id. Callers append only after the store confirmed the row.
func (r *Registry) Append(id model.UserID) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

// Snapshot returns a copy of every id appended so far, in append order.
func (r *Registry) Snapshot() []model.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]model.UserID, len(r.ids))
	copy(snapshot, r.ids)
	return snapshot
}

// Len returns the number of ids appended so far.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
