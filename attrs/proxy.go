/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package attrs

// Proxy containers back the mutable attribute types.  Every mutation marks
// the owner dirty exactly like a direct attribute write.

// List proxies a slice value on an entity.
type List struct {
	owner Owner
	items []any
}

// NewList creates a list proxy bound to an owner.
func NewList(owner Owner, items ...any) *List {
	copied := make([]any, len(items))
	copy(copied, items)
	return &List{owner: owner, items: copied}
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// At returns the item at index i.
func (l *List) At(i int) any { return l.items[i] }

// SetAt replaces the item at index i.
func (l *List) SetAt(i int, value any) {
	l.items[i] = value
	l.owner.Dirty()
}

// Append adds items to the end of the list.
func (l *List) Append(values ...any) {
	l.items = append(l.items, values...)
	l.owner.Dirty()
}

// Insert places a value at index i, shifting later items.
func (l *List) Insert(i int, value any) {
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = value
	l.owner.Dirty()
}

// Remove deletes the item at index i.
func (l *List) Remove(i int) {
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.owner.Dirty()
}

// Values returns a copy of the items.
func (l *List) Values() []any {
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Map proxies a string-keyed map value on an entity.
type Map struct {
	owner Owner
	items map[string]any
}

// NewMap creates a map proxy bound to an owner.
func NewMap(owner Owner, items map[string]any) *Map {
	copied := make(map[string]any, len(items))
	for k, v := range items {
		copied[k] = v
	}
	return &Map{owner: owner, items: copied}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.items) }

// Get returns the value for a key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Set stores a value under a key.
func (m *Map) Set(key string, value any) {
	m.items[key] = value
	m.owner.Dirty()
}

// Delete removes a key.
func (m *Map) Delete(key string) {
	delete(m.items, key)
	m.owner.Dirty()
}

// Items returns a copy of the entries.
func (m *Map) Items() map[string]any {
	out := make(map[string]any, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// Set proxies a set value on an entity.  Members must be comparable.
type Set struct {
	owner Owner
	items map[any]struct{}
}

// NewSet creates a set proxy bound to an owner.
func NewSet(owner Owner, items ...any) *Set {
	s := &Set{owner: owner, items: make(map[any]struct{}, len(items))}
	for _, item := range items {
		s.items[item] = struct{}{}
	}
	return s
}

// Len returns the number of members.
func (s *Set) Len() int { return len(s.items) }

// Has reports whether a value is a member.
func (s *Set) Has(value any) bool {
	_, ok := s.items[value]
	return ok
}

// Add inserts a member.
func (s *Set) Add(value any) {
	s.items[value] = struct{}{}
	s.owner.Dirty()
}

// Discard removes a member if present.
func (s *Set) Discard(value any) {
	delete(s.items, value)
	s.owner.Dirty()
}

// Values returns the members in unspecified order.
func (s *Set) Values() []any {
	out := make([]any, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	return out
}
