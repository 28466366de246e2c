/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

// Package jsonfile provides a Backend that stores one JSON document per key
// under a directory.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
)

const ext = ".json"

// Store is a directory-backed storage engine.
type Store struct {
	dir string
}

// New creates the backing directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// keyPath validates a key and returns the absolute path of its document.
// Keys that would escape the store directory are rejected.
func (s *Store) keyPath(key string) (string, error) {
	if key == "" {
		return "", errors.NewValidationError("key", "must not be empty")
	}
	path, err := filepath.Abs(filepath.Join(s.dir, key+ext))
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", errors.NewValidationError("key", fmt.Sprintf("invalid store key %q", key))
	}
	return path, nil
}

// Has reports whether a key's document exists.
func (s *Store) Has(key string) (bool, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get reads and unmarshals a key's document.
func (s *Store) Get(key string) (datastore.Record, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("record", key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var rec datastore.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return rec, nil
}

// Put marshals and writes a key's document.
func (s *Store) Put(key string, rec datastore.Record) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record for %q: %w", key, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Delete removes a key's document.
func (s *Store) Delete(key string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("record", key)
		}
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Keys lists the keys of every document in the store directory.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list store directory %s: %w", s.dir, err)
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ext) {
			keys = append(keys, strings.TrimSuffix(name, ext))
		}
	}
	return keys, nil
}
