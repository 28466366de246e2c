/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import (
	"sync"

	"github.com/graymoor/mudstore/attrs"
	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
	"github.com/graymoor/mudstore/logging"
)

var log = logging.Get("entity")

// DefaultCacheSize is the capacity of a type's UID cache when the type
// config doesn't set one.
const DefaultCacheSize = 512

// Registry maps type names to registered entity types.  The name stored
// under the "type" key of a serialized record resolves through a registry,
// so a server typically has exactly one.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	// live is the registry-wide table of in-memory entities across all
	// types.  Like the per-type tables it is owned by the game loop.
	live map[string]*Entity
}

// NewRegistry creates an empty entity type registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
		live:  make(map[string]*Entity),
	}
}

// Live returns the in-memory entity with the given UID, of any type.
func (r *Registry) Live(uid string) (*Entity, bool) {
	e, ok := r.live[uid]
	return e, ok
}

// TypeConfig declares a new entity type.
type TypeConfig struct {
	// Name is the type discriminator stored under the "type" key of every
	// serialized record.
	Name string
	// Code prefixes the UIDs of this type's entities ("E" yields "E-...").
	// Subtypes may share their parent's code.
	Code string
	// Parent is the type this one extends, nil for a root type.
	Parent *Type
	// Spec holds the fields declared by this type; ancestor fields are
	// merged in automatically, nearest ancestor winning below this type.
	Spec *attrs.Spec
	// Store persists this type's entities.  When nil the store is
	// inherited from Parent; a type with no store anywhere in its
	// ancestry is transient.
	Store *datastore.DataStore
	// CacheSize bounds the per-attribute lookup caches, DefaultCacheSize
	// when zero.
	CacheSize int
}

// Type is a registered entity type: a name, a UID code, a merged field
// spec, a backing store, and the live table of its in-memory entities.
//
// The live table and lookup caches are owned by the game loop and are not
// guarded; only type registration itself is safe for concurrent use.
type Type struct {
	name      string
	code      string
	registry  *Registry
	parent    *Type
	children  []*Type
	declared  *attrs.Spec
	spec      *attrs.Spec
	store     *datastore.DataStore
	cacheSize int
	instances map[string]*Entity
	caches    map[string]*Cache
}

// RegisterType registers an entity type under its config's name.  Every
// type gets a UID cache; root types get a "version" field unless their
// spec already declares one.
func (r *Registry) RegisterType(cfg TypeConfig) (*Type, error) {
	if cfg.Name == "" {
		return nil, errors.NewValidationError("name", "entity type name must not be empty")
	}
	if cfg.Code == "" {
		return nil, errors.NewValidationError("code", "entity type code must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[cfg.Name]; ok {
		return nil, errors.NewAlreadyExistsError("entity type", cfg.Name)
	}

	declared := cfg.Spec
	if declared == nil {
		declared = attrs.NewSpec()
	}
	if cfg.Parent == nil {
		// Root types declare "version" so every entity in the hierarchy
		// carries one; migrations key off it.
		declared = declared.Clone()
		if _, ok := declared.Attr("version"); !ok {
			if err := declared.RegisterAttr("version", attrs.IntAttr{Def: 1}); err != nil {
				return nil, err
			}
		}
	}

	t := &Type{
		name:      cfg.Name,
		code:      cfg.Code,
		registry:  r,
		parent:    cfg.Parent,
		declared:  declared,
		store:     cfg.Store,
		cacheSize: cfg.CacheSize,
		instances: make(map[string]*Entity),
		caches:    make(map[string]*Cache),
	}
	if t.cacheSize <= 0 {
		t.cacheSize = DefaultCacheSize
	}
	if t.store == nil && t.parent != nil {
		t.store = t.parent.store
	}

	// Merge field specs root-first so nearer ancestors override farther
	// ones and the type's own declarations win outright.
	merged := attrs.NewSpec()
	for _, ancestor := range t.ancestry() {
		merged.Merge(ancestor.declared)
	}
	t.spec = merged

	if err := t.RegisterCache("uid"); err != nil {
		return nil, err
	}

	if t.parent != nil {
		t.parent.children = append(t.parent.children, t)
	}
	r.types[cfg.Name] = t
	log.Debugw("entity type registered",
		"type", cfg.Name, "code", cfg.Code, "store", storeName(t.store))
	return t, nil
}

// Type returns the registered type with the given name.
func (r *Registry) Type(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Reconstruct rebuilds an entity from a serialized record, dispatching on
// the record's "type" key so subtype records load as their real type.
func (r *Registry) Reconstruct(rec datastore.Record) (*Entity, error) {
	name, _ := rec["type"].(string)
	if name == "" {
		return nil, errors.NewValidationError("type", "record has no entity type")
	}
	t, ok := r.Type(name)
	if !ok {
		return nil, errors.NewNotFoundError("entity type", name)
	}
	return t.New(rec)
}

// SaveDirty saves every dirty, savable entity live in the registry and
// returns how many were saved.  Saves are queued on each type's store
// transaction; committing is the caller's business.
func (r *Registry) SaveDirty() (int, error) {
	r.mu.RLock()
	types := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		types = append(types, t)
	}
	r.mu.RUnlock()

	var saved int
	for _, t := range types {
		for _, e := range t.instances {
			if !e.IsSavable() || !e.IsDirty() {
				continue
			}
			if err := e.Save(); err != nil {
				return saved, err
			}
			saved++
		}
	}
	if saved > 0 {
		log.Debugw("dirty entities saved", "count", saved)
	}
	return saved, nil
}

// Name returns the type's registered name.
func (t *Type) Name() string { return t.name }

// Code returns the type's UID code.
func (t *Type) Code() string { return t.code }

// Parent returns the type this one extends, nil for root types.
func (t *Type) Parent() *Type { return t.parent }

// Store returns the type's backing store, nil for transient types.
func (t *Type) Store() *datastore.DataStore { return t.store }

// Spec returns the type's merged field spec.
func (t *Type) Spec() *attrs.Spec { return t.spec }

// Live returns how many of this type's entities are held in memory.
func (t *Type) Live() int { return len(t.instances) }

// ancestry returns the inheritance chain root-first, ending with t.
func (t *Type) ancestry() []*Type {
	var chain []*Type
	for cur := t; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// RegisterCache adds a bounded lookup cache over one of the type's
// attributes and back-fills it from the live table.  Writes to the
// attribute keep the cache consistent from then on.
func (t *Type) RegisterCache(attr string) error {
	if _, ok := t.spec.Attr(attr); attr != "uid" && !ok {
		return errors.NewNotFoundError("attribute", attr)
	}
	if _, ok := t.caches[attr]; ok {
		return errors.NewAlreadyExistsError("cache", attr)
	}
	cache, err := newCache(t, attr, t.cacheSize)
	if err != nil {
		return err
	}
	for _, e := range t.instances {
		cache.add(e.Field(attr), e)
	}
	t.caches[attr] = cache
	return nil
}

// Cache returns the type's cache over an attribute, if registered.
func (t *Type) Cache(attr string) (*Cache, bool) {
	c, ok := t.caches[attr]
	return c, ok
}

// adopt places an entity in the live tables and the UID cache.
func (t *Type) adopt(e *Entity) {
	t.instances[e.uid] = e
	t.registry.live[e.uid] = e
	t.caches["uid"].add(e.uid, e)
}

// release drops an entity from the live tables without saving it.
func (t *Type) release(e *Entity) {
	delete(t.instances, e.uid)
	delete(t.registry.live, e.uid)
}

func storeName(s *datastore.DataStore) string {
	if s == nil {
		return ""
	}
	return s.Name()
}
