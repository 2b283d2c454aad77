// Package repository defines error values that are reused across multiple
// repositories. These sentinels let handlers and services distinguish failure
// scenarios: ErrForbidden means the caller does not own the resource, while
// ErrConflict signals that an operation cannot proceed because of dependent
// records (e.g. deleting an aircraft that still operates flights).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
