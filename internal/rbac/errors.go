package rbac

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvariantError marks a mutation that would corrupt the role graph:
// deleting a role that still has members, granting cross-module permission
// IDs, or assigning a role across tenants.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsInvariantViolation(err error) bool {
	var e *InvariantError
	return errors.As(err, &e)
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func conflictf(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func invariantf(format string, args ...interface{}) error {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}
