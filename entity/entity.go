/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import (
	"fmt"
	"strings"

	"github.com/graymoor/mudstore/attrs"
	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
)

// reservedKeys are record keys owned by the entity layer itself; field
// serialization never sees them.
var reservedKeys = map[string]struct{}{
	"type":  {},
	"uid":   {},
	"flags": {},
	"tags":  {},
}

// oldKeyTag marks an entity whose store key changed (a reconstructed clone
// adopting a fresh UID, for instance); the next save deletes the record
// under the old key so it doesn't leak.
const oldKeyTag = "_old_key"

// Entity is a live instance of a registered Type: a UID, a field tree
// built from the type's spec, flags, tags, and a dirty bit that every
// field, flag, and tag write sets.
type Entity struct {
	typ     *Type
	uid     string
	fields  *attrs.Blob
	flags   *FlagSet
	tags    *Tags
	dirty   bool
	savable bool
	active  bool
}

// New creates an entity of this type.  With a nil record the entity gets
// default field values and a fresh UID; with a record it is reconstructed
// from serialized state, adopting the record's UID, and comes out clean.
func (t *Type) New(rec datastore.Record) (*Entity, error) {
	e := &Entity{typ: t, savable: true}
	e.flags = newFlagSet(e)
	e.tags = newTags(e)
	e.fields = t.spec.Instantiate(e)

	uid, _ := rec["uid"].(string)
	if uid == "" {
		uid = MakeUID(t.code)
	}
	e.uid = uid
	t.adopt(e)

	if rec != nil {
		if err := e.Deserialize(rec); err != nil {
			e.Release()
			return nil, err
		}
	}
	e.dirty = false
	return e, nil
}

// UID returns the entity's unique identifier.
func (e *Entity) UID() string { return e.uid }

// Type returns the entity's registered type.
func (e *Entity) Type() *Type { return e.typ }

// Fields returns the entity's field tree.
func (e *Entity) Fields() *attrs.Blob { return e.fields }

// Flags returns the entity's flag set.
func (e *Entity) Flags() *FlagSet { return e.flags }

// Tags returns the entity's tag bag.
func (e *Entity) Tags() *Tags { return e.tags }

// IsDirty reports whether the entity has unsaved changes.
func (e *Entity) IsDirty() bool { return e.dirty }

// Dirty marks the entity as having unsaved changes.  Field, flag, and tag
// writes call this automatically.
func (e *Entity) Dirty() { e.dirty = true }

// IsSavable reports whether saving this entity does anything: it must not
// be marked transient and its type must have a store.
func (e *Entity) IsSavable() bool {
	return e.savable && e.typ.store != nil
}

// SetSavable marks the entity as persistent or transient.
func (e *Entity) SetSavable(savable bool) { e.savable = savable }

// IsActive reports whether the entity is in active play.
func (e *Entity) IsActive() bool { return e.active }

// SetActive marks the entity as in or out of active play.
func (e *Entity) SetActive(active bool) { e.active = active }

// Reindex keeps the type's lookup caches consistent with a field write.
func (e *Entity) Reindex(attr string, old, new any) {
	if cache, ok := e.typ.caches[attr]; ok {
		cache.reindex(e, old, new)
	}
}

// Field returns the value at a dotted field path.  "uid" and "type"
// resolve to the entity's identity; unknown paths return nil.
func (e *Entity) Field(path string) any {
	switch path {
	case "uid":
		return e.uid
	case "type":
		return e.typ.name
	}
	value, _ := e.fields.Lookup(path)
	return value
}

// SetField writes the value at a dotted field path, running the field's
// validation and triggers.
func (e *Entity) SetField(path string, value any) error {
	blob := e.fields
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child := blob.Child(part)
		if child == nil {
			return errors.NewNotFoundError("field", path)
		}
		blob = child
	}
	return blob.Set(parts[len(parts)-1], value)
}

// Serialize flattens the entity into a storable record, including its
// type name, UID, flags, and tags.
func (e *Entity) Serialize() (datastore.Record, error) {
	data, err := e.fields.Serialize()
	if err != nil {
		return nil, err
	}
	rec := datastore.Record(data)
	rec["type"] = e.typ.name
	rec["uid"] = e.uid
	rec["flags"] = e.flags.AsList()
	rec["tags"] = e.tags.AsMap()
	return rec, nil
}

// Deserialize loads serialized state into the entity.  Reserved keys feed
// the entity layer; everything else routes into the field tree without
// validation.  The record itself is not modified.
func (e *Entity) Deserialize(rec datastore.Record) error {
	if uid, ok := rec["uid"].(string); ok && uid != e.uid {
		e.setUID(uid)
	}
	if flags, ok := rec["flags"]; ok {
		e.flags.flags = make(map[string]struct{})
		for _, flag := range anySlice(flags) {
			if s, ok := flag.(string); ok {
				e.flags.flags[s] = struct{}{}
			}
		}
	}
	if tags, ok := rec["tags"].(map[string]any); ok {
		e.tags.items = make(map[string]any, len(tags))
		for k, v := range tags {
			e.tags.items[k] = v
		}
	}

	fields := make(map[string]any, len(rec))
	for key, value := range rec {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		fields[key] = value
	}
	return e.fields.Deserialize(fields)
}

// setUID rebinds the entity's identity, keeping the live table and UID
// cache consistent.
func (e *Entity) setUID(uid string) {
	t := e.typ
	t.release(e)
	t.caches["uid"].remove(e.uid, e)
	e.uid = uid
	t.adopt(e)
}

// Save queues the entity's serialized record on its type's store
// transaction and clears the dirty bit.  Saving an unsavable entity is a
// logged no-op.
func (e *Entity) Save() error {
	if !e.IsSavable() {
		log.Warnw("attempt to save unsavable entity", "uid", e.uid)
		return nil
	}
	store := e.typ.store
	if oldKey, ok := e.tags.Get(oldKeyTag); ok {
		if key, ok := oldKey.(string); ok && key != e.uid && store.Has(key) {
			if err := store.Delete(key); err != nil {
				return err
			}
		}
		e.tags.Delete(oldKeyTag)
	}
	rec, err := e.Serialize()
	if err != nil {
		return err
	}
	store.Put(e.uid, rec)
	e.dirty = false
	return nil
}

// Revert discards the entity's in-memory state and reloads it from its
// type's store.
func (e *Entity) Revert() error {
	store := e.typ.store
	if store == nil {
		return fmt.Errorf("%w: type %q has no store to revert from",
			errors.ErrPrecondition, e.typ.name)
	}
	rec, err := store.Get(e.uid)
	if err != nil {
		return err
	}
	if uid, _ := rec["uid"].(string); uid != e.uid {
		return errors.NewUIDMismatchError(e.uid, uid)
	}
	if err := e.Deserialize(rec); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// Clone creates a new entity of the same type from this one's serialized
// state.  The clone mints a fresh UID, so it saves under its own key.
func (e *Entity) Clone() (*Entity, error) {
	rec, err := e.Serialize()
	if err != nil {
		return nil, err
	}
	delete(rec, "uid")
	clone, err := e.typ.New(rec)
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// Delete removes the entity from its type's caches and live table and
// queues deletion of its stored record, if any.
func (e *Entity) Delete() error {
	for attr, cache := range e.typ.caches {
		cache.remove(e.Field(attr), e)
	}
	if store := e.typ.store; store != nil && store.Has(e.uid) {
		if err := store.Delete(e.uid); err != nil {
			return err
		}
	}
	e.typ.release(e)
	return nil
}

// Release drops the entity from its type's caches and live table without
// touching the store.  A released entity can be reloaded from its record.
func (e *Entity) Release() {
	for attr, cache := range e.typ.caches {
		cache.remove(e.Field(attr), e)
	}
	e.typ.release(e)
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity<%s>", e.uid)
}

func anySlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	}
	return nil
}
