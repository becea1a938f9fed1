package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint fails
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrInsufficientBudget is returned when a debit would make the remaining budget negative
	ErrInsufficientBudget = errors.New("insufficient budget")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
