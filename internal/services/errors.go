package services

import "errors"

// ErrNotFound signals that a slug, category or token has no matching row.
// Callers render a 404 or an error message; the condition is never retried.
var ErrNotFound = errors.New("not found")
