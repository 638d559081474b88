package multimethod

import (
	"errors"
	"fmt"
)

var (
	// ErrNoApplicableMethod is matched by every NoApplicableMethodError.
	ErrNoApplicableMethod = errors.New("no applicable method")

	// ErrMalformedRegistration is matched by every RegistrationError.
	ErrMalformedRegistration = errors.New("malformed registration")

	// ErrArgumentType is returned by Func1 and Func2 methods when an
	// argument does not have the parameter's type.
	ErrArgumentType = errors.New("argument type mismatch")

	// ErrResultType is returned when a Combiner produces a value that is not
	// of the generic function's result type.
	ErrResultType = errors.New("result type mismatch")
)

// NoApplicableMethodError is returned when no registered method applies to
// the arguments of a call.
type NoApplicableMethodError struct {
	Name string
	Args Args
}

func (e *NoApplicableMethodError) Error() string {
	return fmt.Sprintf("%s: %v for %v", e.Name, ErrNoApplicableMethod, e.Args)
}

func (e *NoApplicableMethodError) Is(target error) bool {
	return target == ErrNoApplicableMethod
}

// RegistrationError is returned when a method cannot be registered.
type RegistrationError struct {
	Name   string
	Reason error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Name, ErrMalformedRegistration, e.Reason)
}

func (e *RegistrationError) Is(target error) bool {
	return target == ErrMalformedRegistration
}

func (e *RegistrationError) Unwrap() error { return e.Reason }
