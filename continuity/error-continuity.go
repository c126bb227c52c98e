// Package continuity chains a sequence of named, fallible steps: once
// any step returns an error, every later step is skipped and the
// chain's final Err reports which step (or steps, for Then) failed.
// It is used by build/dump pipelines that touch several independent
// resources (files, encoders) where stopping at the first failure and
// naming it saves a debugging round trip compared to a bare err != nil
// chain.
package continuity

import (
	"fmt"
	"strings"
)

// IfThen accumulates the first failing step (or, via Then, every
// non-nil error passed to a single step) and short-circuits any step
// added afterward.
type IfThen struct {
	failedAt ErrArray
}

// ErrArray is the error type returned by Err when one or more steps
// failed.
type ErrArray []error

func (e ErrArray) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	errs := make([]string, len(e))
	for i, err := range e {
		errs[i] = err.Error()
	}
	return "multiple errors: " + strings.Join(errs, ", ")
}

// New starts an empty chain.
func New() *IfThen {
	return new(IfThen)
}

// Thenf runs f, named for error reporting, unless an earlier step in
// the chain already failed.
func (it *IfThen) Thenf(name string, f func() error) *IfThen {
	if len(it.failedAt) > 0 {
		return it
	}
	if err := f(); err != nil {
		it.failedAt = append(it.failedAt, fmt.Errorf("%s: %w", name, err))
	}
	return it
}

// Then records every non-nil error in errs under name, unless an
// earlier step in the chain already failed.
func (it *IfThen) Then(name string, errs ...error) *IfThen {
	if len(it.failedAt) > 0 {
		return it
	}
	for _, err := range errs {
		if err != nil {
			it.failedAt = append(it.failedAt, fmt.Errorf("%s: %w", name, err))
		}
	}
	return it
}

// Err returns nil if every step succeeded, or the recorded failure(s)
// otherwise.
func (it *IfThen) Err() error {
	if len(it.failedAt) == 0 {
		return nil
	}
	return it.failedAt
}
