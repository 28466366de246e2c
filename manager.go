/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package mudstore

import (
	"sync"

	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
	"github.com/graymoor/mudstore/logging"
)

var log = logging.Get("storage")

// Storage manages a named collection of DataStore instances and drives
// their transactions as a group.
type Storage interface {
	// RegisterDataStore registers a DataStore under a name (for example,
	// "players" or "rooms").
	RegisterDataStore(name string, ds *datastore.DataStore) error
	// GetDataStore retrieves the registered DataStore for a name.
	GetDataStore(name string) (*datastore.DataStore, error)
	// Initialize opens every registered store and builds its indexes.
	Initialize() error
	// Commit commits the pending transaction of every registered store.
	Commit() error
	// Abort discards the pending transaction of every registered store.
	Abort()
	// Close commits and closes every registered store.
	Close() error
}

// storageManager is a thread-safe implementation of the Storage interface.
type storageManager struct {
	mu     sync.RWMutex
	stores map[string]*datastore.DataStore
	// order preserves registration order so bulk operations run in a
	// stable sequence.
	order []string
}

// NewStorageManager creates and returns a new Storage implementation.
func NewStorageManager() Storage {
	return &storageManager{
		stores: make(map[string]*datastore.DataStore),
	}
}

// RegisterDataStore stores the provided DataStore under the given name.
func (sm *storageManager) RegisterDataStore(name string, ds *datastore.DataStore) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.stores[name]; exists {
		return errors.NewAlreadyExistsError("datastore", name)
	}
	sm.stores[name] = ds
	sm.order = append(sm.order, name)
	return nil
}

// GetDataStore retrieves the DataStore associated with the given name.
func (sm *storageManager) GetDataStore(name string) (*datastore.DataStore, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ds, exists := sm.stores[name]
	if !exists {
		return nil, errors.NewNotFoundError("datastore", name)
	}
	return ds, nil
}

func (sm *storageManager) each() []*datastore.DataStore {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]*datastore.DataStore, 0, len(sm.order))
	for _, name := range sm.order {
		out = append(out, sm.stores[name])
	}
	return out
}

// Initialize opens every registered store and rebuilds its indexes from
// stored records.  Called once at server startup.
func (sm *storageManager) Initialize() error {
	for _, ds := range sm.each() {
		if err := ds.Open(); err != nil {
			return err
		}
		if err := ds.BuildIndexes(); err != nil {
			return err
		}
	}
	log.Infow("storage initialized", "stores", len(sm.each()))
	return nil
}

// Commit commits the pending transaction of every registered store.  A
// failing store does not roll back the others; the first error is
// returned after every store has been driven.
func (sm *storageManager) Commit() error {
	var firstErr error
	items, stores := 0, 0
	for _, ds := range sm.each() {
		pending := ds.PendingOps()
		if pending == 0 {
			continue
		}
		if err := ds.Commit(); err != nil {
			log.Warnw("store commit failed", "store", ds.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		items += pending
		stores++
	}
	if items > 0 {
		log.Debugw("transactions committed", "items", items, "stores", stores)
	}
	return firstErr
}

// Abort discards the pending transaction of every registered store.
func (sm *storageManager) Abort() {
	items, stores := 0, 0
	for _, ds := range sm.each() {
		pending := ds.PendingOps()
		if pending == 0 {
			continue
		}
		ds.Abort()
		items += pending
		stores++
	}
	if items > 0 {
		log.Debugw("transactions aborted", "items", items, "stores", stores)
	}
}

// Close commits and closes every registered store.
func (sm *storageManager) Close() error {
	var firstErr error
	for _, ds := range sm.each() {
		if err := ds.Close(true); err != nil {
			log.Warnw("store close failed", "store", ds.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
