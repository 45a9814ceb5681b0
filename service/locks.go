package service

import (
	"sync"

	"github.com/google/uuid"
)

// recordLocks serializes mutations per record id so concurrent soft-delete
// toggles or updates cannot interleave blob moves. Entries are never evicted;
// the map is bounded by the number of records mutated since startup.
type recordLocks struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func (l *recordLocks) lock(id uuid.UUID) func() {
	v, _ := l.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
