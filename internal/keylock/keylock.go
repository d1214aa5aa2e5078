// Package keylock provides per-key mutual exclusion. The clarifier and the
// breakdown engine use it to serialize mutations per idea ID without blocking
// unrelated sessions.
package keylock

import "sync"

// KeyLock hands out one mutex per key on demand. Mutexes are never evicted;
// the key space (idea IDs seen by one process) is assumed to stay small.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *KeyLock) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for key. It panics if the key was never locked,
// mirroring sync.Mutex semantics.
func (k *KeyLock) Unlock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		panic("keylock: unlock of unknown key " + key)
	}
	m.Unlock()
}
