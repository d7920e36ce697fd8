package repository

import "errors"

// ErrStaleWrite is returned when a versioned update matched no row because
// another transaction changed it first.
var ErrStaleWrite = errors.New("stale write: row version changed")

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("duplicate row")
