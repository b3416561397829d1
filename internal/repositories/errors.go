package repositories

import "errors"

// ErrNotFound is returned when no record matches the given identity (and, for
// owner-scoped lookups, the given owner). Callers match it with errors.Is.
var ErrNotFound = errors.New("record not found")
