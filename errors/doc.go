/*
Package errors provides semantic error types for the mudstore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("not found")
	    ErrAlreadyExists = errors.New("already exists")
	    ErrInvalidValue  = errors.New("invalid value")
	    ErrAmbiguous     = errors.New("ambiguous match")
	    ErrPrecondition  = errors.New("precondition failed")
	    ErrUIDMismatch   = errors.New("uid mismatch")
	    ErrConstraint    = errors.New("constraint violation")
	)

Usage:

	// Check error type
	rec, err := store.Get("E-6jQZ4zvH")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return nil, fmt.Errorf("entity %s does not exist", uid)
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("entity", "E-6jQZ4zvH")
	err := errors.NewValidationError("name", "must not be empty")
	err := errors.NewConstraintError("email", "a@b.c")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
