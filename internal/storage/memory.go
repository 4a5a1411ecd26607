package storage

import "sync"

// MemoryStore is the in-memory Store implementation. It remembers insertion
// order so listings behave like the durable store.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Keys returns all document keys in insertion order.
func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names, nil
}

// Get returns the document stored under name.
func (s *MemoryStore) Get(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// Put stores doc under name, replacing any previous document.
func (s *MemoryStore) Put(name string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		s.order = append(s.order, name)
	}
	stored := make([]byte, len(doc))
	copy(stored, doc)
	s.docs[name] = stored
	return nil
}

// Delete removes the document stored under name.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return nil
	}
	delete(s.docs, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
