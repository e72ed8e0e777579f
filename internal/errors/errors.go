package appErrors

import (
	"errors"
	"fmt"
)

// NotFoundError signals a missing resource and maps to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Helper constructor
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError maps to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError maps to HTTP 409 (uniqueness violations).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

func NewConflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// GuardError blocks an operation because of active references. Maps to HTTP 400
// with an explanatory message, e.g. deleting a template used by an active campaign.
type GuardError struct {
	Msg string
}

func (e *GuardError) Error() string {
	return e.Msg
}

func NewGuard(format string, args ...any) error {
	return &GuardError{Msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsGuard(err error) bool {
	var g *GuardError
	return errors.As(err, &g)
}
