/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package attrs

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/graymoor/mudstore/errors"
)

// StringAttr is a string-valued attribute with an optional length cap.
type StringAttr struct {
	Base
	Def    any
	MaxLen int
}

// Default returns the declared default, or Unset.
func (a StringAttr) Default(Owner) any {
	if a.Def != nil {
		return a.Def
	}
	return Unset
}

// Validate requires a string value within the length cap.
func (a StringAttr) Validate(_ Owner, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected string, got %T", value))
	}
	if a.MaxLen > 0 && len(s) > a.MaxLen {
		return nil, errors.NewValidationError("", fmt.Sprintf("string longer than %d characters", a.MaxLen))
	}
	return s, nil
}

// IntAttr is an integer-valued attribute.
type IntAttr struct {
	Base
	Def any
	Min *int
	Max *int
}

// Default returns the declared default, or Unset.
func (a IntAttr) Default(Owner) any {
	if a.Def != nil {
		return a.Def
	}
	return Unset
}

// Validate requires an integral value and applies the declared bounds.
func (a IntAttr) Validate(_ Owner, value any) (any, error) {
	n, err := toInt(value)
	if err != nil {
		return nil, err
	}
	if a.Min != nil && n < *a.Min {
		return nil, errors.NewValidationError("", fmt.Sprintf("%d below minimum %d", n, *a.Min))
	}
	if a.Max != nil && n > *a.Max {
		return nil, errors.NewValidationError("", fmt.Sprintf("%d above maximum %d", n, *a.Max))
	}
	return n, nil
}

// Deserialize converts JSON numbers back to int.
func (a IntAttr) Deserialize(_ Owner, value any) (any, error) {
	return toInt(value)
}

func toInt(value any) (int, error) {
	switch n := value.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, errors.NewValidationError("", fmt.Sprintf("%v is not an integer", n))
		}
		return int(n), nil
	default:
		return 0, errors.NewValidationError("", fmt.Sprintf("expected integer, got %T", value))
	}
}

// BoolAttr is a boolean-valued attribute.
type BoolAttr struct {
	Base
	Def any
}

// Default returns the declared default, or Unset.
func (a BoolAttr) Default(Owner) any {
	if a.Def != nil {
		return a.Def
	}
	return Unset
}

// Validate requires a bool value.
func (a BoolAttr) Validate(_ Owner, value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected bool, got %T", value))
	}
	return b, nil
}

// TimestampAttr is a point-in-time attribute stored as an RFC 3339 string.
type TimestampAttr struct {
	Base
}

// Validate accepts time.Time, strfmt.DateTime, or an RFC 3339 string.
func (TimestampAttr) Validate(_ Owner, value any) (any, error) {
	switch t := value.(type) {
	case time.Time:
		return strfmt.DateTime(t), nil
	case strfmt.DateTime:
		return t, nil
	case string:
		parsed, err := strfmt.ParseDateTime(t)
		if err != nil {
			return nil, errors.NewValidationError("", fmt.Sprintf("bad timestamp %q: %v", t, err))
		}
		return parsed, nil
	default:
		return nil, errors.NewValidationError("", fmt.Sprintf("expected timestamp, got %T", value))
	}
}

// Serialize renders the timestamp as a string.
func (TimestampAttr) Serialize(_ Owner, value any) (any, error) {
	dt, ok := value.(strfmt.DateTime)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected strfmt.DateTime, got %T", value))
	}
	return dt.String(), nil
}

// Deserialize parses the stored string.
func (TimestampAttr) Deserialize(_ Owner, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected timestamp string, got %T", value))
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return nil, errors.NewValidationError("", fmt.Sprintf("bad stored timestamp %q: %v", s, err))
	}
	return dt, nil
}

// ListAttr is a mutable list attribute.  Direct writes are ignored; the list
// proxy returned by reads is the mutation path.
type ListAttr struct {
	Base
}

// ReadOnly returns true.
func (ListAttr) ReadOnly() bool { return true }

// Default returns an empty bound list proxy.
func (ListAttr) Default(owner Owner) any { return NewList(owner) }

// Serialize flattens the proxy to a plain slice.
func (ListAttr) Serialize(_ Owner, value any) (any, error) {
	l, ok := value.(*List)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected list proxy, got %T", value))
	}
	return l.Values(), nil
}

// Deserialize rebuilds a bound proxy from a stored slice.
func (ListAttr) Deserialize(owner Owner, value any) (any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected stored list, got %T", value))
	}
	return NewList(owner, items...), nil
}

// MapAttr is a mutable map attribute mutated through its proxy.
type MapAttr struct {
	Base
}

// ReadOnly returns true.
func (MapAttr) ReadOnly() bool { return true }

// Default returns an empty bound map proxy.
func (MapAttr) Default(owner Owner) any { return NewMap(owner, nil) }

// Serialize flattens the proxy to a plain map.
func (MapAttr) Serialize(_ Owner, value any) (any, error) {
	m, ok := value.(*Map)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected map proxy, got %T", value))
	}
	return m.Items(), nil
}

// Deserialize rebuilds a bound proxy from a stored map.
func (MapAttr) Deserialize(owner Owner, value any) (any, error) {
	items, ok := value.(map[string]any)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected stored map, got %T", value))
	}
	return NewMap(owner, items), nil
}

// SetAttr is a mutable set attribute mutated through its proxy.  Members are
// stored as a plain slice.
type SetAttr struct {
	Base
}

// ReadOnly returns true.
func (SetAttr) ReadOnly() bool { return true }

// Default returns an empty bound set proxy.
func (SetAttr) Default(owner Owner) any { return NewSet(owner) }

// Serialize flattens the proxy to a plain slice of members.
func (SetAttr) Serialize(_ Owner, value any) (any, error) {
	s, ok := value.(*Set)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected set proxy, got %T", value))
	}
	return s.Values(), nil
}

// Deserialize rebuilds a bound proxy from a stored slice.
func (SetAttr) Deserialize(owner Owner, value any) (any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, errors.NewValidationError("", fmt.Sprintf("expected stored set, got %T", value))
	}
	return NewSet(owner, items...), nil
}
