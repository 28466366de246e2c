/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("entity", "E-123")

	expected := `entity with key "E-123" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("attribute", "name")

	expected := `attribute with key "name" already exists`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrAlreadyExists) {
		t.Error("AlreadyExistsError should match ErrAlreadyExists")
	}

	if !IsAlreadyExists(err) {
		t.Error("IsAlreadyExists should return true for AlreadyExistsError")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("version", "must be an integer")

	expected := `validation failed for field "version": must be an integer`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsValidation(err) {
		t.Error("IsValidation should return true for ValidationError")
	}

	// Without a field name
	err = NewValidationError("", "bad value")
	expected = "validation failed: bad value"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestAmbiguousError(t *testing.T) {
	err := NewAmbiguousError(2, `{"name":"Alice"}`)

	if !IsAmbiguous(err) {
		t.Error("IsAmbiguous should return true for AmbiguousError")
	}
	if !errors.Is(err, ErrAmbiguous) {
		t.Error("AmbiguousError should match ErrAmbiguous")
	}
}

func TestUIDMismatchError(t *testing.T) {
	err := NewUIDMismatchError("E-aaa", "E-bbb")

	expected := `uid mismatch: in-memory "E-aaa", stored "E-bbb"`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsUIDMismatch(err) {
		t.Error("IsUIDMismatch should return true for UIDMismatchError")
	}
}

func TestConstraintError(t *testing.T) {
	err := NewConstraintError("email", "a@b.c")

	if !IsConstraint(err) {
		t.Error("IsConstraint should return true for ConstraintError")
	}
	if !errors.Is(err, ErrConstraint) {
		t.Error("ConstraintError should match ErrConstraint")
	}
}

func TestWrappedErrors(t *testing.T) {
	inner := NewNotFoundError("entity", "E-123")
	wrapped := fmt.Errorf("loading character: %w", inner)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through wrapping")
	}

	var nf *NotFoundError
	if !errors.As(wrapped, &nf) {
		t.Error("errors.As should unwrap to *NotFoundError")
	}
	if nf.Key != "E-123" {
		t.Errorf("Expected key E-123, got %q", nf.Key)
	}
}
