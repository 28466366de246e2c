/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package attrs

// UnsetMarker is the serialized form of an attribute that has no value.
// It round-trips through storage without invoking Serialize or Deserialize.
const UnsetMarker = "unset"

type unsetType struct{}

func (unsetType) String() string { return "<Unset>" }

// Unset is the sentinel value for an attribute that has not been set.
var Unset = unsetType{}

// IsUnset reports whether a value is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(unsetType)
	return ok
}

// Owner is the object a blob's attributes belong to, usually an entity.
// Writes mark the owner dirty and update any secondary caches keyed on the
// written attribute.
type Owner interface {
	// Dirty marks the owner as needing a save.
	Dirty()
	// Reindex moves the owner between secondary cache buckets after an
	// attribute value changes.
	Reindex(attr string, old, new any)
}

// Attribute describes a single typed field of an entity.  Attributes are
// stateless descriptors shared by every instance of the declaring type; all
// per-instance state lives in the blob's value table.
type Attribute interface {
	// Default returns the initial value for this attribute.
	Default(owner Owner) any

	// Validate checks a candidate value and returns the value to store,
	// possibly sanitized.  It is skipped when rehydrating from storage.
	Validate(owner Owner, value any) (any, error)

	// Finalize transforms a validated value before it is stored.
	Finalize(owner Owner, value any) any

	// Changed is called synchronously after the stored value changes.
	Changed(owner Owner, blob *Blob, old, new any)

	// Serialize converts a live value into a storable one.
	Serialize(owner Owner, value any) (any, error)

	// Deserialize converts a stored value back into a live one.
	Deserialize(owner Owner, value any) (any, error)

	// ReadOnly reports whether direct writes are ignored.  Read-only
	// attributes are mutated through their proxy containers instead.
	ReadOnly() bool
}

// Base is a no-op Attribute implementation intended for embedding.  Concrete
// attributes override only the hooks they need.
type Base struct{}

// Default returns Unset.
func (Base) Default(Owner) any { return Unset }

// Validate accepts any value unchanged.
func (Base) Validate(_ Owner, value any) (any, error) { return value, nil }

// Finalize returns the value unchanged.
func (Base) Finalize(_ Owner, value any) any { return value }

// Changed does nothing.
func (Base) Changed(Owner, *Blob, any, any) {}

// Serialize returns the value unchanged.
func (Base) Serialize(_ Owner, value any) (any, error) { return value, nil }

// Deserialize returns the value unchanged.
func (Base) Deserialize(_ Owner, value any) (any, error) { return value, nil }

// ReadOnly returns false.
func (Base) ReadOnly() bool { return false }
