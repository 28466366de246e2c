/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/graymoor/mudstore/attrs"
)

// Cache is a bounded, least-recently-used lookup cache over one attribute
// of an entity type.  Values map to buckets of live entities keyed by UID,
// since a non-unique attribute can resolve to several entities at once.
//
// Eviction is where persistence meets identity: when a bucket falls off
// the cache, every dirty savable entity in it is saved, and the UID cache
// additionally releases its entities from the type's live table.  An
// entity reachable only through caches can therefore always be re-read
// from the store after eviction without losing writes.
type Cache struct {
	typ  *Type
	attr string
	lru  *lru.Cache[any, map[string]*Entity]
}

func newCache(t *Type, attr string, size int) (*Cache, error) {
	c := &Cache{typ: t, attr: attr}
	backing, err := lru.NewWithEvict[any, map[string]*Entity](size, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.lru = backing
	return c, nil
}

func (c *Cache) onEvict(value any, bucket map[string]*Entity) {
	for _, e := range bucket {
		if e.IsSavable() && e.IsDirty() {
			if err := e.Save(); err != nil {
				log.Warnw("failed to save entity evicted from cache",
					"uid", e.UID(), "attribute", c.attr, "error", err)
			}
		}
		if c.attr == "uid" {
			c.typ.release(e)
		}
	}
}

// Len returns the number of distinct attribute values cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Get returns the entities cached under an attribute value.
func (c *Cache) Get(value any) map[string]*Entity {
	bucket, ok := c.lru.Get(value)
	if !ok {
		return nil
	}
	return bucket
}

// Has reports whether an attribute value has a cached bucket.
func (c *Cache) Has(value any) bool {
	return c.lru.Contains(value)
}

func (c *Cache) add(value any, e *Entity) {
	if value == nil || attrs.IsUnset(value) {
		return
	}
	if bucket, ok := c.lru.Get(value); ok {
		bucket[e.UID()] = e
		return
	}
	c.lru.Add(value, map[string]*Entity{e.UID(): e})
}

func (c *Cache) remove(value any, e *Entity) {
	if value == nil || attrs.IsUnset(value) {
		return
	}
	bucket, ok := c.lru.Peek(value)
	if !ok {
		return
	}
	delete(bucket, e.UID())
	if len(bucket) == 0 {
		c.lru.Remove(value)
	}
}

// reindex moves an entity from its old value's bucket to its new value's
// bucket after an attribute write.
func (c *Cache) reindex(e *Entity, old, new any) {
	c.remove(old, e)
	c.add(new, e)
}
