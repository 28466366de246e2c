/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

// Package memory provides an in-memory Backend, used for transient stores
// and as the test double for the store layer.
package memory

import (
	"sync"

	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
)

// Store is a mutex-guarded map-backed storage engine.
type Store struct {
	mu   sync.RWMutex
	data map[string]datastore.Record
}

// New creates an empty in-memory backend.
func New() *Store {
	return &Store{
		data: make(map[string]datastore.Record),
	}
}

// Has reports whether a key exists.
func (s *Store) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}

// Get returns a copy of the record for a key.
func (s *Store) Get(key string) (datastore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[key]
	if !ok {
		return nil, errors.NewNotFoundError("record", key)
	}
	return rec.Clone(), nil
}

// Put stores a copy of the record under a key.
func (s *Store) Put(key string, rec datastore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = rec.Clone()
	return nil
}

// Delete removes a key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return errors.NewNotFoundError("record", key)
	}
	delete(s.data, key)
	return nil
}

// Keys returns every stored key.
func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

// Helper methods for testing

// SetData replaces the backing map.
func (s *Store) SetData(data map[string]datastore.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// Snapshot returns a copy of the backing map.
func (s *Store) Snapshot() map[string]datastore.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]datastore.Record, len(s.data))
	for key, rec := range s.data {
		out[key] = rec.Clone()
	}
	return out
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear removes all records.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]datastore.Record)
}
