package domain

import "fmt"

// The four error kinds raised by the modification core. They are distinct
// types so callers can map each one to its own external status with
// errors.As and never have to parse messages.

type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

type BusinessRuleError struct {
	msg string
}

func NewBusinessRuleError(msg string) *BusinessRuleError {
	return &BusinessRuleError{msg: msg}
}

func (e *BusinessRuleError) Error() string {
	return e.msg
}

type ConflictError struct {
	Count int
}

func NewConflictError(count int) *ConflictError {
	return &ConflictError{Count: count}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointment overlaps with %d existing appointment(s)", e.Count)
}
