/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import "sort"

// FlagSet is a set of string flags bound to an entity.  Every mutation
// marks the owning entity dirty.
type FlagSet struct {
	owner *Entity
	flags map[string]struct{}
}

func newFlagSet(owner *Entity) *FlagSet {
	return &FlagSet{owner: owner, flags: make(map[string]struct{})}
}

// Len returns the number of flags set.
func (f *FlagSet) Len() int {
	return len(f.flags)
}

// Has reports whether all of the given flags are set.
func (f *FlagSet) Has(flags ...string) bool {
	for _, flag := range flags {
		if _, ok := f.flags[flag]; !ok {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one of the given flags is set.
func (f *FlagSet) HasAny(flags ...string) bool {
	for _, flag := range flags {
		if _, ok := f.flags[flag]; ok {
			return true
		}
	}
	return false
}

// Add sets the given flags.
func (f *FlagSet) Add(flags ...string) {
	for _, flag := range flags {
		f.flags[flag] = struct{}{}
	}
	f.owner.Dirty()
}

// Drop clears the given flags.
func (f *FlagSet) Drop(flags ...string) {
	for _, flag := range flags {
		delete(f.flags, flag)
	}
	f.owner.Dirty()
}

// Toggle flips each of the given flags.
func (f *FlagSet) Toggle(flags ...string) {
	for _, flag := range flags {
		if _, ok := f.flags[flag]; ok {
			delete(f.flags, flag)
		} else {
			f.flags[flag] = struct{}{}
		}
	}
	f.owner.Dirty()
}

// AsList returns the flags in sorted order.
func (f *FlagSet) AsList() []string {
	out := make([]string, 0, len(f.flags))
	for flag := range f.flags {
		out = append(out, flag)
	}
	sort.Strings(out)
	return out
}

// Tags is a free-form key/value bag bound to an entity.  Tags are saved
// with the entity but are not validated or indexed; they are meant for
// bookkeeping that no declared field covers.
type Tags struct {
	owner *Entity
	items map[string]any
}

func newTags(owner *Entity) *Tags {
	return &Tags{owner: owner, items: make(map[string]any)}
}

// Len returns the number of tags set.
func (t *Tags) Len() int {
	return len(t.items)
}

// Has reports whether a tag is set.
func (t *Tags) Has(key string) bool {
	_, ok := t.items[key]
	return ok
}

// Get returns the value of a tag.
func (t *Tags) Get(key string) (any, bool) {
	v, ok := t.items[key]
	return v, ok
}

// Set stores a tag value.
func (t *Tags) Set(key string, value any) {
	t.items[key] = value
	t.owner.Dirty()
}

// Delete removes a tag.
func (t *Tags) Delete(key string) {
	if _, ok := t.items[key]; !ok {
		return
	}
	delete(t.items, key)
	t.owner.Dirty()
}

// AsMap returns a copy of the tag map.
func (t *Tags) AsMap() map[string]any {
	out := make(map[string]any, len(t.items))
	for k, v := range t.items {
		out[k] = v
	}
	return out
}
