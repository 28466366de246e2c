/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a key or entity is not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when registering a name that is already taken
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidValue is returned when a value fails attribute validation
	ErrInvalidValue = errors.New("invalid value")

	// ErrAmbiguous is returned when a get matches more than one entity
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrPrecondition is returned when a query disables every search layer
	ErrPrecondition = errors.New("precondition failed")

	// ErrUIDMismatch is returned when a reloaded record carries a different UID
	ErrUIDMismatch = errors.New("uid mismatch")

	// ErrConstraint is returned when a unique index would be violated
	ErrConstraint = errors.New("constraint violation")
)

// NotFoundError represents an error when a key or entity is not found
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents a duplicate registration of a name
type AlreadyExistsError struct {
	Kind string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Kind, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents a value rejected by an attribute's validator
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidValue
}

// AmbiguousError represents a get that matched more than one entity
type AmbiguousError struct {
	Matches int
	Query   string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("get returned %d matches for %s", e.Matches, e.Query)
}

func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// UIDMismatchError represents a revert that loaded a record for a different entity
type UIDMismatchError struct {
	Want string
	Got  string
}

func (e *UIDMismatchError) Error() string {
	return fmt.Sprintf("uid mismatch: in-memory %q, stored %q", e.Want, e.Got)
}

func (e *UIDMismatchError) Is(target error) bool {
	return target == ErrUIDMismatch
}

// ConstraintError represents a unique index collision during commit
type ConstraintError struct {
	Index string
	Value any
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("unique index %q already holds value %v", e.Index, e.Value)
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Kind: kind, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAmbiguousError creates a new AmbiguousError
func NewAmbiguousError(matches int, query string) error {
	return &AmbiguousError{Matches: matches, Query: query}
}

// NewUIDMismatchError creates a new UIDMismatchError
func NewUIDMismatchError(want, got string) error {
	return &UIDMismatchError{Want: want, Got: got}
}

// NewConstraintError creates a new ConstraintError
func NewConstraintError(index string, value any) error {
	return &ConstraintError{Index: index, Value: value}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}

// IsAmbiguous checks if an error is an ambiguous match error
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// IsUIDMismatch checks if an error is a uid mismatch error
func IsUIDMismatch(err error) bool {
	return errors.Is(err, ErrUIDMismatch)
}

// IsConstraint checks if an error is a constraint violation
func IsConstraint(err error) bool {
	return errors.Is(err, ErrConstraint)
}
