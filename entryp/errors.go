package entryp

import (
	"errors"
	"fmt"
)

var (
	// schema errors
	ErrDuplicateProperty = errors.New("duplicate property")
	ErrIncomparableTypes = errors.New("incomparable entry types")
	ErrMissingTableName  = errors.New("entry is missing a table name")
	ErrUnknownProperty   = errors.New("unknown property")

	// identity lifecycle errors
	ErrAlreadyLinked = errors.New("entry is already linked to a row")
	ErrUnlinked      = errors.New("entry is not linked to a row")

	ErrRowNotFound = errors.New("row not found")
)

// DuplicatePropertyError is returned when adding a property whose name is already taken.
type DuplicatePropertyError struct {
	Name string
}

func (e *DuplicatePropertyError) Error() string {
	return fmt.Sprintf("%s: an entry already has a property named %s", ErrDuplicateProperty, e.Name)
}

func (e *DuplicatePropertyError) Unwrap() error {
	return ErrDuplicateProperty
}

// IncomparableTypesError is returned when two entries that must share a schema do not.
// Reason is set instead of Actual when the mismatch is not between two schemas.
type IncomparableTypesError struct {
	Expected Schema
	Actual   Schema
	Reason   string
}

func (e *IncomparableTypesError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrIncomparableTypes, e.Reason)
	}
	return fmt.Sprintf("%s: %s did not match the expected entry type %s", ErrIncomparableTypes, e.Actual, e.Expected)
}

func (e *IncomparableTypesError) Unwrap() error {
	return ErrIncomparableTypes
}
