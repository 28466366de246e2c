/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import (
	"fmt"

	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
)

// FindOptions controls which layers a type-level query searches.
type FindOptions struct {
	// Cache searches the type's live table.
	Cache bool
	// Store searches the type's backing store, reconstructing matches
	// that aren't already live.
	Store bool
	// Subtypes extends the query to registered subtypes.
	Subtypes bool
	// ignore carries UIDs already seen by outer layers of a recursive
	// query so no entity is counted twice.
	ignore map[string]struct{}
}

// FindOption mutates query options.
type FindOption func(*FindOptions)

// WithoutCache skips the live table, querying stored records only.
func WithoutCache() FindOption {
	return func(o *FindOptions) { o.Cache = false }
}

// WithoutStore skips the backing store, querying live entities only.
func WithoutStore() FindOption {
	return func(o *FindOptions) { o.Store = false }
}

// WithoutSubtypes restricts the query to the queried type itself.
func WithoutSubtypes() FindOption {
	return func(o *FindOptions) { o.Subtypes = false }
}

func withIgnore(ignore map[string]struct{}) FindOption {
	return func(o *FindOptions) { o.ignore = ignore }
}

func makeFindOptions(opts []FindOption) FindOptions {
	o := FindOptions{Cache: true, Store: true, Subtypes: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ignore == nil {
		o.ignore = make(map[string]struct{})
	}
	return o
}

// Find returns every entity of this type whose fields equal all the pairs
// in match.  Live entities are matched in memory; stored records are
// matched through the store's indexes and reconstructed, so results unify
// both layers without duplicates.
func (t *Type) Find(match datastore.Match, opts ...FindOption) ([]*Entity, error) {
	o := makeFindOptions(opts)
	if !o.Cache && !o.Store {
		return nil, fmt.Errorf("%w: find needs the live table or the store",
			errors.ErrPrecondition)
	}

	var found []*Entity
	if o.Cache {
		for uid, e := range t.instances {
			if _, skip := o.ignore[uid]; skip {
				continue
			}
			if t.entityMatches(e, match) {
				found = append(found, e)
			}
		}
		// Everything live has now been considered; deeper layers and
		// subtype queries must not count these UIDs again.
		for uid := range t.instances {
			o.ignore[uid] = struct{}{}
		}
	}

	if o.Store && t.store != nil {
		keys, err := t.store.Find(match, datastore.WithIgnoreKeys(o.ignore))
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if _, skip := o.ignore[key]; skip {
				continue
			}
			o.ignore[key] = struct{}{}
			if live, ok := t.registry.Live(key); ok {
				// Matched through the store while its live instance was
				// out of this query's cache reach; the live object is
				// still the identity to hand back.
				found = append(found, live)
				continue
			}
			rec, err := t.store.Get(key)
			if err != nil {
				return nil, err
			}
			e, err := t.registry.Reconstruct(rec)
			if err != nil {
				return nil, err
			}
			found = append(found, e)
		}
	}

	if o.Subtypes {
		childOpts := []FindOption{withIgnore(o.ignore)}
		if !o.Cache {
			childOpts = append(childOpts, WithoutCache())
		}
		if !o.Store {
			childOpts = append(childOpts, WithoutStore())
		}
		for _, child := range t.children {
			sub, err := child.Find(match, childOpts...)
			if err != nil {
				return nil, err
			}
			found = append(found, sub...)
		}
	}
	return found, nil
}

// Get resolves match to at most one entity.  No match returns nil without
// error; more than one match is an error.
func (t *Type) Get(match datastore.Match, opts ...FindOption) (*Entity, error) {
	found, err := t.Find(match, opts...)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	return nil, errors.NewAmbiguousError(len(found), fmt.Sprintf("%v", match))
}

// GetByKey resolves a UID to an entity, returning the live instance when
// one exists and otherwise reconstructing from the store.  An unknown UID
// returns nil without error.
func (t *Type) GetByKey(uid string, opts ...FindOption) (*Entity, error) {
	o := makeFindOptions(opts)
	if o.Cache {
		if e, ok := t.instances[uid]; ok {
			return e, nil
		}
	}
	if o.Store && t.store != nil && t.store.Has(uid) {
		if e, ok := t.registry.Live(uid); ok {
			return e, nil
		}
		rec, err := t.store.Get(uid)
		if err != nil {
			return nil, err
		}
		return t.registry.Reconstruct(rec)
	}
	if o.Subtypes {
		for _, child := range t.children {
			e, err := child.GetByKey(uid, opts...)
			if err != nil || e != nil {
				return e, err
			}
		}
	}
	return nil, nil
}

// AllActive returns every live entity of this type (and its subtypes)
// currently marked as in active play.
func (t *Type) AllActive() []*Entity {
	var out []*Entity
	for _, e := range t.instances {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	for _, child := range t.children {
		out = append(out, child.AllActive()...)
	}
	return out
}

func (t *Type) entityMatches(e *Entity, match datastore.Match) bool {
	for attr, want := range match {
		if e.Field(attr) != want {
			return false
		}
	}
	return true
}
