/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package datastore

// Record is one serialized entity: a flat key→value map.
type Record map[string]any

// Clone returns a deep copy of the record.  Nested maps and slices are
// copied so callers cannot mutate pending transaction state through a Get.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Backend is the minimal contract a pluggable storage engine must satisfy.
// Transactions and indexing are layered on top by DataStore; a backend only
// moves records in and out of durable storage.
type Backend interface {
	// Has reports whether a key exists.
	Has(key string) (bool, error)
	// Get returns the record for a key, or a not-found error.
	Get(key string) (Record, error)
	// Put writes a record under a key, overwriting any previous record.
	Put(key string, rec Record) error
	// Delete removes a key.
	Delete(key string) error
	// Keys returns every stored key.
	Keys() ([]string, error)
}

// Opener is implemented by backends that need an explicit handle.  Most
// backends do not; DataStore treats them as always open.
type Opener interface {
	Open() error
	Close() error
	IsOpen() bool
}
