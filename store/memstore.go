package store

import (
	"fmt"
	"sync"

	"github.com/digestorg/libdigest-go/digest"
	"github.com/digestorg/libdigest-go/hasher"
)

// MemStore implements Store in memory, keyed directly by digest.Digest.
// Useful for tests and as a write-through cache.
type MemStore struct {
	algo  hasher.Algorithm
	mu    sync.RWMutex
	blobs map[digest.Digest][]byte
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore(algo hasher.Algorithm) (*MemStore, error) {
	if !algo.Valid() {
		return nil, fmt.Errorf("%w: %q", hasher.ErrUnknownAlgorithm, string(algo))
	}
	return &MemStore{
		algo:  algo,
		blobs: make(map[digest.Digest][]byte),
	}, nil
}

// Put stores a copy of content under its digest after verification.
func (s *MemStore) Put(d digest.Digest, content []byte) error {
	if err := verifyContent(s.algo, d, content); err != nil {
		return err
	}

	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[d] = stored
	return nil
}

// Get retrieves a copy of the content for d.
func (s *MemStore) Get(d digest.Digest) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.blobs[d]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

// Has checks if content exists for the given digest.
func (s *MemStore) Has(d digest.Digest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[d]
	return ok, nil
}

// Delete removes the content for d.
func (s *MemStore) Delete(d digest.Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[d]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, d)
	return nil
}

// List returns the digests of all stored content.
func (s *MemStore) List() ([]digest.Digest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]digest.Digest, 0, len(s.blobs))
	for d := range s.blobs {
		result = append(result, d)
	}
	return result, nil
}
