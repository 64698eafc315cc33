package store

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation is not allowed in the record's
// current state.
var ErrConflict = errors.New("conflict")

// ErrRejected is returned when a transition is attempted on a rejected
// application.
var ErrRejected = errors.New("application is rejected")
