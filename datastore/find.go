/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package datastore

import (
	"fmt"

	"github.com/graymoor/mudstore/errors"
)

// FindOptions configures a store query.
type FindOptions struct {
	// Transaction controls whether results are reconciled against the
	// pending transaction (default: true).
	Transaction bool
	// IgnoreKeys are keys excluded from scans, threaded through layered
	// queries so one key is never matched twice.
	IgnoreKeys map[string]struct{}
}

// FindOption is a functional option for configuring a query.
type FindOption func(*FindOptions)

// DefaultFindOptions returns the default query options.
func DefaultFindOptions() FindOptions {
	return FindOptions{Transaction: true}
}

// WithoutTransaction skips transaction reconciliation.
func WithoutTransaction() FindOption {
	return func(opts *FindOptions) {
		opts.Transaction = false
	}
}

// WithIgnoreKeys excludes the given keys from the query.
func WithIgnoreKeys(keys map[string]struct{}) FindOption {
	return func(opts *FindOptions) {
		opts.IgnoreKeys = keys
	}
}

// Find returns the keys of records matching every key→value pair.  When all
// queried keys are indexed the index buckets are intersected; otherwise the
// whole backend is scanned, which is a known scalability limit.  Results are
// always reconciled against the pending transaction: a matched key with a
// pending operation only survives if the pending record still matches.
func (ds *DataStore) Find(match Match, opts ...FindOption) ([]string, error) {
	options := DefaultFindOptions()
	for _, opt := range opts {
		opt(&options)
	}

	var found map[string]struct{}
	var err error
	if ds.allIndexed(match) {
		found = ds.findInIndex(match)
		for key := range options.IgnoreKeys {
			delete(found, key)
		}
	} else {
		found, err = ds.findInBackend(match, options.IgnoreKeys)
		if err != nil {
			return nil, err
		}
	}

	if options.Transaction {
		for key := range ds.txOps {
			delete(found, key)
		}
		for key := range ds.findInTransaction(match, options.IgnoreKeys) {
			found[key] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for key := range found {
		out = append(out, key)
	}
	return out, nil
}

// GetMatch expects the match to identify at most one record.  It returns the
// key and record of the single match, ("", nil) when nothing matches, and an
// ambiguity error when more than one record matches.
func (ds *DataStore) GetMatch(match Match, opts ...FindOption) (string, Record, error) {
	keys, err := ds.Find(match, opts...)
	if err != nil {
		return "", nil, err
	}
	if len(keys) > 1 {
		return "", nil, errors.NewAmbiguousError(len(keys), fmt.Sprintf("%v", match))
	}
	if len(keys) == 0 {
		return "", nil, nil
	}
	rec, err := ds.Get(keys[0])
	if err != nil {
		return "", nil, err
	}
	return keys[0], rec, nil
}

func (ds *DataStore) allIndexed(match Match) bool {
	if len(match) == 0 {
		return false
	}
	for key := range match {
		if _, ok := ds.indexes[key]; !ok {
			return false
		}
	}
	return true
}

func (ds *DataStore) findInIndex(match Match) map[string]struct{} {
	found := make(map[string]struct{})
	first := true
	for key, value := range match {
		bucket := ds.indexes[key][normalizeIndexValue(value)]
		if first {
			for k := range bucket {
				found[k] = struct{}{}
			}
			first = false
			continue
		}
		for k := range found {
			if _, ok := bucket[k]; !ok {
				delete(found, k)
			}
		}
		if len(found) == 0 {
			break
		}
	}
	return found
}

func (ds *DataStore) findInBackend(match Match, ignore map[string]struct{}) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	keys, err := ds.backend.Keys()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if _, skip := ignore[key]; skip {
			continue
		}
		rec, err := ds.backend.Get(key)
		if err != nil {
			return nil, err
		}
		if recordMatches(rec, match) {
			found[key] = struct{}{}
		}
	}
	return found, nil
}

func (ds *DataStore) findInTransaction(match Match, ignore map[string]struct{}) map[string]struct{} {
	found := make(map[string]struct{})
	for key, rec := range ds.txOps {
		if _, skip := ignore[key]; skip {
			continue
		}
		if rec == nil {
			continue
		}
		if recordMatches(rec, match) {
			found[key] = struct{}{}
		}
	}
	return found
}

// recordMatches compares through normalizeIndexValue so a stored record's
// decoded numerics still equal the caller's in-memory values.
func recordMatches(rec Record, match Match) bool {
	for key, want := range match {
		got, ok := rec[key]
		if !ok || normalizeIndexValue(got) != normalizeIndexValue(want) {
			return false
		}
	}
	return true
}
