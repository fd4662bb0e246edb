package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrProfileMissing indicates an authenticated account with no user profile.
	// Role resolution never falls back to a default in that case.
	ErrProfileMissing = errors.New("account has no user profile")
	// ErrPermissionDenied indicates the caller's role lacks the capability
	// for the requested operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrAssetNotFound indicates no asset exists with the given serial number.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoActiveAssignment indicates a return was requested for an asset
	// with no open assignment.
	ErrNoActiveAssignment = errors.New("no active assignment found for this asset")
)

// ValidationError carries field-level messages for rejected input. No state
// is mutated when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
