package concurrency

import (
	"fmt"
	"sync"
)

// LockManager handles named locks. Entries are reference counted and
// dropped once no caller holds or waits on them, so memory tracks the
// number of keys in use rather than every key ever seen.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyedLock)}
}

// Lock acquires the mutex for key and returns its unlock function.
// The returned function must be called exactly once.
func (lm *LockManager) Lock(key string) func() {
	lm.mu.Lock()
	l, ok := lm.locks[key]
	if !ok {
		l = &keyedLock{}
		lm.locks[key] = l
	}
	l.refs++
	lm.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		lm.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(lm.locks, key)
		}
		lm.mu.Unlock()
	}
}

// Len reports how many keys are currently held or awaited
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

// UserTypeKey builds the lock key scoping equip changes to one user and item type.
func UserTypeKey(userID int64, itemType string) string {
	return fmt.Sprintf("%d:%s", userID, itemType)
}
