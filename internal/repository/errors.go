package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (serial number, username, employee id).
	ErrDuplicate = errors.New("duplicate record")
)
