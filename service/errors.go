package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Failure kinds callers branch on with errors.Is. Controllers map these to
// HTTP statuses; nothing on the request path panics.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrBlocked       = errors.New("fingerprint is blocked")
	ErrNoValidFiles  = errors.New("no valid files to archive")
	ErrNoContent     = errors.New("no file path found")
	ErrMissingBlob   = errors.New("referenced blob is missing from the store")
	ErrArchiveCreate = errors.New("failed to create archive")
)

// ValidationError reports malformed or missing request fields, keyed by field
// name.
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
