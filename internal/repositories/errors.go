package repositories

import "errors"

// ErrNotFound is returned when a lookup matches no record. Callers use
// errors.Is to tell a miss from a backend failure.
var ErrNotFound = errors.New("record not found")
