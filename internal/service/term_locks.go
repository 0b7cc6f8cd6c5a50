package service

import "sync"

// TermLocks serialises writers per term. Every mutating operation validates
// against the full term snapshot, so one exclusive lock per term is enough;
// there is no per-slot locking.
type TermLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTermLocks constructs the shared lock table.
func NewTermLocks() *TermLocks {
	return &TermLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the term's exclusive lock and returns its release func.
func (t *TermLocks) Lock(term string) func() {
	t.mu.Lock()
	lock, ok := t.locks[term]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[term] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
