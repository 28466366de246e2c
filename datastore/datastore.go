/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package datastore

import (
	"fmt"
	"math"
	"reflect"

	"github.com/graymoor/mudstore/errors"
	"github.com/graymoor/mudstore/logging"
)

var log = logging.Get("storage")

// Match is a set of record key→value equality conditions.
type Match map[string]any

// DataStore is a transactional, indexable view over a Backend.  Puts and
// deletes accumulate in an ordered transaction; Commit updates the secondary
// indexes and then applies the operations to the backend in insertion order.
type DataStore struct {
	name    string
	backend Backend

	// Transaction state.  txOps maps key to the pending record, with nil
	// acting as the deletion sentinel; txOrder preserves insertion order
	// and holds each key at most once.
	txOps   map[string]Record
	txOrder []string

	// indexes is keyed first by record key, then by value, each bucket
	// holding the store keys whose records carry that value.
	indexes map[string]map[any]map[string]struct{}
	unique  map[string]struct{}
}

// New creates a DataStore over a backend.
func New(name string, backend Backend) *DataStore {
	return &DataStore{
		name:    name,
		backend: backend,
		txOps:   make(map[string]Record),
		indexes: make(map[string]map[any]map[string]struct{}),
		unique:  make(map[string]struct{}),
	}
}

// Name returns the store's registered name.
func (ds *DataStore) Name() string { return ds.name }

// Backend returns the underlying storage engine.
func (ds *DataStore) Backend() Backend { return ds.backend }

// Open opens the backend if it requires an explicit handle.
func (ds *DataStore) Open() error {
	if opener, ok := ds.backend.(Opener); ok {
		return opener.Open()
	}
	return nil
}

// Close commits any pending transaction and closes the backend if it
// requires an explicit handle.
func (ds *DataStore) Close(commit bool) error {
	if commit {
		if err := ds.Commit(); err != nil {
			return err
		}
	}
	if opener, ok := ds.backend.(Opener); ok {
		return opener.Close()
	}
	return nil
}

// IsOpen reports whether the backend is usable.  Backends without an
// explicit handle are always open.
func (ds *DataStore) IsOpen() bool {
	if opener, ok := ds.backend.(Opener); ok {
		return opener.IsOpen()
	}
	return true
}

// AddIndex registers a secondary index on a record key.  Adding an index
// does not populate it; call BuildIndexes after registering indexes on a
// store with existing data.
func (ds *DataStore) AddIndex(key string, unique bool) {
	if _, exists := ds.indexes[key]; exists {
		log.Warnw("index already exists on store", "store", ds.name, "index", key)
		return
	}
	ds.indexes[key] = make(map[any]map[string]struct{})
	if unique {
		ds.unique[key] = struct{}{}
	}
}

// BuildIndexes populates every registered index from the backend of record.
// Indexes are always rebuildable this way, which is also the recovery path
// after a crash between an index update and the backend write.
func (ds *DataStore) BuildIndexes() error {
	keys, err := ds.backend.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys for %s: %w", ds.name, err)
	}
	for _, key := range keys {
		rec, err := ds.backend.Get(key)
		if err != nil {
			return fmt.Errorf("failed to load %q from %s: %w", key, ds.name, err)
		}
		if err := ds.updateIndexes(key, rec, false); err != nil {
			return err
		}
	}
	return nil
}

// updateIndexes folds one key's new record through every index.  With prune
// set, the key's old record is read from the backend so stale buckets can be
// emptied.  A unique index rejects a value already held by a different key.
func (ds *DataStore) updateIndexes(key string, rec Record, prune bool) error {
	var old Record
	if prune {
		if has, err := ds.backend.Has(key); err == nil && has {
			loaded, err := ds.backend.Get(key)
			if err != nil {
				return err
			}
			old = loaded
		}
	}
	for indexKey, index := range ds.indexes {
		var value any
		present := false
		if rec != nil {
			value, present = rec[indexKey]
		}
		if present && indexable(value) {
			value = normalizeIndexValue(value)
			bucket := index[value]
			if bucket == nil {
				index[value] = map[string]struct{}{key: {}}
			} else {
				if _, isUnique := ds.unique[indexKey]; isUnique && heldByOther(bucket, key) {
					return errors.NewConstraintError(indexKey, value)
				}
				bucket[key] = struct{}{}
			}
		} else {
			value = nil
		}
		if prune && old != nil {
			oldValue, oldPresent := old[indexKey]
			if oldPresent && indexable(oldValue) {
				oldValue = normalizeIndexValue(oldValue)
				if oldValue != value {
					if bucket, ok := index[oldValue]; ok {
						delete(bucket, key)
					}
				}
			}
		}
	}
	return nil
}

// heldByOther reports whether a bucket contains any key other than key.
func heldByOther(bucket map[string]struct{}, key string) bool {
	for k := range bucket {
		if k != key {
			return true
		}
	}
	return false
}

// indexable reports whether a value can serve as an index bucket key.
func indexable(value any) bool {
	if value == nil {
		return false
	}
	return reflect.TypeOf(value).Comparable()
}

// normalizeIndexValue folds numeric values into one canonical type so a
// record read back from a persistent backend indexes and matches the same
// as its in-memory original.  JSON backends decode every number as float64.
// Integral numbers become int64; other numbers become float64.
func normalizeIndexValue(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return v
	case float32:
		return normalizeIndexValue(float64(v))
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v)
		}
		return v
	}
	return value
}

// Keys returns the transaction's keys in insertion order followed by the
// backend keys not shadowed by the transaction.
func (ds *DataStore) Keys() ([]string, error) {
	out := make([]string, len(ds.txOrder))
	copy(out, ds.txOrder)
	backendKeys, err := ds.backend.Keys()
	if err != nil {
		return nil, err
	}
	for _, key := range backendKeys {
		if _, pending := ds.txOps[key]; !pending {
			out = append(out, key)
		}
	}
	return out, nil
}

// Has reports whether a key is visible, overlaying the pending transaction
// atop the backend.  A key queued for deletion reads as absent even though
// it is still physically present in the backend until commit.
func (ds *DataStore) Has(key string) bool {
	if rec, pending := ds.txOps[key]; pending {
		return rec != nil
	}
	has, err := ds.backend.Has(key)
	if err != nil {
		log.Warnw("backend has failed", "store", ds.name, "key", key, "error", err)
		return false
	}
	return has
}

// Get returns the visible record for a key, preferring the pending
// transaction.  Pending records are cloned so callers cannot mutate the
// transaction through the returned map.
func (ds *DataStore) Get(key string) (Record, error) {
	if rec, pending := ds.txOps[key]; pending {
		if rec == nil {
			return nil, errors.NewNotFoundError("record", key)
		}
		return rec.Clone(), nil
	}
	return ds.backend.Get(key)
}

// Put queues a record for storage.  Nothing reaches the backend until
// Commit; a put always supersedes any prior pending operation for the key.
func (ds *DataStore) Put(key string, rec Record) {
	if _, pending := ds.txOps[key]; !pending {
		ds.txOrder = append(ds.txOrder, key)
	}
	ds.txOps[key] = rec
}

// Delete queues a key for removal.  Deleting a key that is neither pending
// nor in the backend is an error, as is deleting a key already queued for
// deletion.  Deleting a pending put cancels it, and still queues the
// deletion when the backend holds an earlier committed record.
func (ds *DataStore) Delete(key string) error {
	if rec, pending := ds.txOps[key]; pending {
		if rec == nil {
			return errors.NewNotFoundError("record", key)
		}
		has, err := ds.backend.Has(key)
		if err != nil {
			return err
		}
		if has {
			ds.txOps[key] = nil
			return nil
		}
		ds.dropPending(key)
		return nil
	}
	has, err := ds.backend.Has(key)
	if err != nil {
		return err
	}
	if !has {
		return errors.NewNotFoundError("record", key)
	}
	ds.txOrder = append(ds.txOrder, key)
	ds.txOps[key] = nil
	return nil
}

func (ds *DataStore) dropPending(key string) {
	delete(ds.txOps, key)
	for i, k := range ds.txOrder {
		if k == key {
			ds.txOrder = append(ds.txOrder[:i], ds.txOrder[i+1:]...)
			break
		}
	}
}

// Pending reports whether the store has uncommitted operations.
func (ds *DataStore) Pending() bool { return len(ds.txOps) > 0 }

// PendingOps returns the number of uncommitted operations.
func (ds *DataStore) PendingOps() int { return len(ds.txOps) }

// Commit updates the indexes for every queued operation and then applies
// the operations to the backend in insertion order.  A commit with no
// pending transaction is a no-op.  Index updates run first so a unique
// constraint violation surfaces before any backend mutation for that key.
func (ds *DataStore) Commit() error {
	if len(ds.txOps) == 0 {
		return nil
	}
	for _, key := range ds.txOrder {
		if err := ds.updateIndexes(key, ds.txOps[key], true); err != nil {
			return err
		}
	}
	for _, key := range ds.txOrder {
		rec := ds.txOps[key]
		if rec == nil {
			has, err := ds.backend.Has(key)
			if err != nil {
				return err
			}
			if has {
				if err := ds.backend.Delete(key); err != nil {
					return err
				}
			}
			continue
		}
		if err := ds.backend.Put(key, rec); err != nil {
			return err
		}
	}
	ds.txOps = make(map[string]Record)
	ds.txOrder = ds.txOrder[:0]
	return nil
}

// Abort discards the pending transaction without touching the backend.
func (ds *DataStore) Abort() {
	ds.txOps = make(map[string]Record)
	ds.txOrder = ds.txOrder[:0]
}
