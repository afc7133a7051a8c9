package memory

import (
	"container/list"
	"sync"
)

// Store is an insertion-ordered in-memory key/value map.
type Store struct {
	mu    sync.RWMutex
	items map[string]*list.Element
	order *list.List
}

type entry struct {
	key   string
	value []byte
}

// New creates an empty store.
func New() *Store {
	return &Store{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// Set stores value under key.
// Overwriting an existing key keeps its original insertion position.
func (s *Store) Set(key, value []byte) {
	buf := cloneBytes(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[string(key)]; ok {
		el.Value.(*entry).value = buf
		return
	}
	k := string(key)
	s.items[k] = s.order.PushBack(&entry{key: k, value: buf})
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.items[string(key)]
	if !ok {
		return nil, false
	}
	return cloneBytes(el.Value.(*entry).value), true
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(key)
}

// Exists reports whether key is present.
func (s *Store) Exists(key []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[string(key)]
	return ok
}

// DeleteMany removes every given key and returns how many were present.
func (s *Store) DeleteMany(keys [][]byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, k := range keys {
		if s.deleteLocked(k) {
			n++
		}
	}
	return n
}

// CountExisting returns the number of given keys that are present.
// A key listed twice is counted twice.
func (s *Store) CountExisting(keys [][]byte) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, k := range keys {
		if _, ok := s.items[string(k)]; ok {
			n++
		}
	}
	return n
}

// Keys returns all keys in insertion order.
func (s *Store) Keys() [][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([][]byte, 0, len(s.items))
	for el := s.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, []byte(el.Value.(*entry).key))
	}
	return keys
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) deleteLocked(key []byte) bool {
	el, ok := s.items[string(key)]
	if !ok {
		return false
	}
	s.order.Remove(el)
	delete(s.items, string(key))
	return true
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
