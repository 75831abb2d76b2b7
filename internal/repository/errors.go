// Package repository contains the data access layer. Repositories own
// their tables, speak hand-written SQL and expose sentinel errors so
// that the service and handler layers can distinguish failure scenarios
// without inspecting driver internals.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicateSlug is returned when the unique index on movies.slug
// rejects an insert or update. The service layer validates slug
// uniqueness before writing, so hitting this error means two writers
// raced; handlers surface it the same way as a validation failure.
var ErrDuplicateSlug = errors.New("movie slug already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error code 1062, unique constraint violation).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Error 1062")
}
