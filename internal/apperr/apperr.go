// Package apperr holds the typed error taxonomy shared by the domain
// services. Messages are stable codes, not prose, so the boundary layer can
// localize them.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError: caller input violates a required-field or business rule.
type ValidationError struct {
	Code string
	Args []any
}

func (e *ValidationError) Error() string {
	if len(e.Args) == 0 {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Args)
}

func Validation(code string, args ...any) error {
	return &ValidationError{Code: code, Args: args}
}

// ConflictError: a uniqueness constraint would be violated.
type ConflictError struct {
	Code string
	Args []any
}

func (e *ConflictError) Error() string {
	if len(e.Args) == 0 {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Args)
}

func Conflict(code string, args ...any) error {
	return &ConflictError{Code: code, Args: args}
}

// NotFoundError: the referenced entity does not exist or is not owned by the
// caller. Ownership misses produce the same error as non-existence so record
// existence never leaks across users.
type NotFoundError struct {
	Code string
	Args []any
}

func (e *NotFoundError) Error() string {
	if len(e.Args) == 0 {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Args)
}

func NotFound(code string, args ...any) error {
	return &NotFoundError{Code: code, Args: args}
}

// SnapshotError wraps any failure during snapshot capture. Callers triggering
// a snapshot after a mutation log it and move on; it never fails the mutation.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot.failed: %v", e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

func Snapshot(err error) error {
	return &SnapshotError{Err: err}
}

// ProviderError: the external quote source failed (timeout, bad payload,
// upstream error). Tagged per ticker so batch refreshes can continue.
type ProviderError struct {
	Ticker string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("price.fetch.failed: %s: %v", e.Ticker, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func Provider(ticker string, err error) error {
	return &ProviderError{Ticker: ticker, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
