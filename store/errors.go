package store

import "errors"

var (
	// ErrNotFound indicates no record under the requested name.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate indicates a record with this name already exists.
	ErrDuplicate = errors.New("store: already exists")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("store: required parameter is nil")

	// ErrEmptyName indicates a record without a name.
	ErrEmptyName = errors.New("store: empty name")
)
