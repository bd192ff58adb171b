package utils

import "sync"

// KeyedMutex hands out one mutex per key (user id, channel id). Entries are
// reference counted and dropped once nobody holds or waits for them.
type KeyedMutex struct {
	mutex sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock blocks until key is free and returns the matching unlock function.
func (km *KeyedMutex) Lock(key string) func() {
	km.mutex.Lock()
	entry, ok := km.locks[key]
	if !ok {
		entry = &keyedEntry{}
		km.locks[key] = entry
	}
	entry.refs++
	km.mutex.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		km.mutex.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(km.locks, key)
		}
		km.mutex.Unlock()
	}
}

// Size returns the number of keys currently locked or awaited.
func (km *KeyedMutex) Size() int {
	km.mutex.Lock()
	defer km.mutex.Unlock()
	return len(km.locks)
}
