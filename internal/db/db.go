package db

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrInconsistent means the catalog holds more than one record where at most one may exist.
	ErrInconsistent = errors.New("inconsistent catalog")
	ErrInternal     = errors.New("internal error")
)

type DB interface {
	Files
}
