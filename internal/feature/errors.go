package feature

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknown is matched by *UnknownError.
	ErrUnknown = errors.New("unknown feature")

	// ErrArity is matched by *ArityError.
	ErrArity = errors.New("weight arity mismatch")

	// ErrEmpty is returned when a registry would contain no features.
	ErrEmpty = errors.New("no features")

	// ErrDuplicate is returned when two features share a name.
	ErrDuplicate = errors.New("duplicate feature")
)

// UnknownError reports a feature name that is not registered.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown feature %q", e.Name)
}

// Is reports whether target is ErrUnknown.
func (e *UnknownError) Is(target error) bool { return target == ErrUnknown }

// ArityError reports a weight vector whose length differs from the feature arity.
type ArityError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("feature %q: expected %d weights, got %d", e.Name, e.Expected, e.Actual)
}

// Is reports whether target is ErrArity.
func (e *ArityError) Is(target error) bool { return target == ErrArity }
