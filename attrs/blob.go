/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package attrs

import (
	"strings"

	"github.com/graymoor/mudstore/errors"
	"github.com/graymoor/mudstore/logging"
)

var log = logging.Get("attrs")

// Spec is a declarative field table: named attributes and nested sub-specs.
// Specs are composed once at type-registration time and shared by every
// instance of the declaring entity type.
type Spec struct {
	attrs map[string]Attribute
	blobs map[string]*Spec
}

// NewSpec creates an empty field table.
func NewSpec() *Spec {
	return &Spec{
		attrs: make(map[string]Attribute),
		blobs: make(map[string]*Spec),
	}
}

// RegisterAttr declares an attribute under the given name.  Names are unique
// across both attributes and sub-blobs within a spec.
func (s *Spec) RegisterAttr(name string, attr Attribute) error {
	if attr == nil {
		return errors.NewValidationError(name, "attribute must not be nil")
	}
	if _, exists := s.attrs[name]; exists {
		return errors.NewAlreadyExistsError("attribute", name)
	}
	if _, exists := s.blobs[name]; exists {
		return errors.NewAlreadyExistsError("blob", name)
	}
	s.attrs[name] = attr
	return nil
}

// RegisterBlob declares a nested sub-blob under the given name.
func (s *Spec) RegisterBlob(name string, sub *Spec) error {
	if sub == nil {
		return errors.NewValidationError(name, "blob spec must not be nil")
	}
	if _, exists := s.attrs[name]; exists {
		return errors.NewAlreadyExistsError("attribute", name)
	}
	if _, exists := s.blobs[name]; exists {
		return errors.NewAlreadyExistsError("blob", name)
	}
	s.blobs[name] = sub
	return nil
}

// Merge overlays another spec's declarations onto this one.  Declarations on
// the other spec win ties, so merging ancestor specs root-first leaves
// subclass declarations in effect.
func (s *Spec) Merge(other *Spec) {
	if other == nil {
		return
	}
	for name, attr := range other.attrs {
		delete(s.blobs, name)
		s.attrs[name] = attr
	}
	for name, sub := range other.blobs {
		delete(s.attrs, name)
		if existing, ok := s.blobs[name]; ok {
			existing.Merge(sub)
		} else {
			s.blobs[name] = sub.Clone()
		}
	}
}

// Clone returns a deep copy of the spec.
func (s *Spec) Clone() *Spec {
	out := NewSpec()
	for name, attr := range s.attrs {
		out.attrs[name] = attr
	}
	for name, sub := range s.blobs {
		out.blobs[name] = sub.Clone()
	}
	return out
}

// Attr returns the attribute declared under name, if any.
func (s *Spec) Attr(name string) (Attribute, bool) {
	attr, ok := s.attrs[name]
	return attr, ok
}

// Instantiate builds a blob tree for an owner, populating every attribute
// with its default value.
func (s *Spec) Instantiate(owner Owner) *Blob {
	b := &Blob{
		owner:    owner,
		spec:     s,
		values:   make(map[string]any, len(s.attrs)),
		children: make(map[string]*Blob, len(s.blobs)),
	}
	for name, attr := range s.attrs {
		b.values[name] = attr.Default(owner)
	}
	for name, sub := range s.blobs {
		b.children[name] = sub.Instantiate(owner)
	}
	return b
}

// Blob is one instantiated field tree: current values for the attributes a
// spec declares, plus instantiated sub-blobs.
type Blob struct {
	owner    Owner
	spec     *Spec
	values   map[string]any
	children map[string]*Blob
}

// Get returns the current value of a directly held attribute, or nil if the
// name is not declared.
func (b *Blob) Get(name string) any {
	return b.values[name]
}

// Child returns the named sub-blob, or nil.
func (b *Blob) Child(name string) *Blob {
	return b.children[name]
}

// Lookup resolves a dotted path ("stats.health") through nested blobs and
// returns the value at the leaf.
func (b *Blob) Lookup(path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ".")
	if nested {
		child, ok := b.children[head]
		if !ok {
			return nil, false
		}
		return child.Lookup(rest)
	}
	if _, ok := b.spec.attrs[head]; ok {
		return b.values[head], true
	}
	return nil, false
}

// Set writes a validated, finalized value to an attribute.  Writes to
// read-only attributes are ignored; their proxies are the mutation path.
func (b *Blob) Set(name string, value any) error {
	attr, ok := b.spec.attrs[name]
	if !ok {
		return errors.NewNotFoundError("attribute", name)
	}
	if attr.ReadOnly() {
		return nil
	}
	return b.set(name, value, true, false)
}

// set is the raw write path.  Rehydration from storage calls it with
// validate=false and raw=true, trusting stored data as already valid.
func (b *Blob) set(name string, value any, validate, raw bool) error {
	attr := b.spec.attrs[name]
	old := b.values[name]
	if !IsUnset(value) {
		if validate {
			validated, err := attr.Validate(b.owner, value)
			if err != nil {
				return err
			}
			value = validated
		}
		if !raw {
			value = attr.Finalize(b.owner, value)
		}
	}
	b.values[name] = value
	b.owner.Dirty()
	attr.Changed(b.owner, b, old, value)
	b.owner.Reindex(name, old, value)
	return nil
}

// Serialize flattens the blob tree into a storable map.  Sub-blob fields are
// prefixed with the blob name as a dotted path segment, and unset attributes
// serialize to the UnsetMarker string.
func (b *Blob) Serialize() (map[string]any, error) {
	data := make(map[string]any, len(b.values))
	for name, child := range b.children {
		sub, err := child.Serialize()
		if err != nil {
			return nil, err
		}
		for key, value := range sub {
			data[name+"."+key] = value
		}
	}
	for name, attr := range b.spec.attrs {
		value := b.values[name]
		if IsUnset(value) {
			data[name] = UnsetMarker
			continue
		}
		stored, err := attr.Serialize(b.owner, value)
		if err != nil {
			return nil, err
		}
		data[name] = stored
	}
	return data, nil
}

// Deserialize writes stored values back into the blob tree, skipping
// validation.  Keys that match no declared attribute or sub-blob are logged
// and ignored so records survive schema drift in both directions.
func (b *Blob) Deserialize(data map[string]any) error {
	for key, value := range data {
		if attr, ok := b.spec.attrs[key]; ok {
			if marker, isString := value.(string); isString && marker == UnsetMarker {
				if err := b.set(key, Unset, false, true); err != nil {
					return err
				}
				continue
			}
			live, err := attr.Deserialize(b.owner, value)
			if err != nil {
				return err
			}
			if err := b.set(key, live, false, true); err != nil {
				return err
			}
			continue
		}
		head, rest, nested := strings.Cut(key, ".")
		if nested {
			if child, ok := b.children[head]; ok {
				if err := child.Deserialize(map[string]any{rest: value}); err != nil {
					return err
				}
				continue
			}
		}
		log.Warnw("unused key while deserializing blob", "key", key, "value", value)
	}
	return nil
}
