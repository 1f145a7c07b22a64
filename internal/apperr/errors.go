// Package apperr defines the sentinel errors shared across the assistant.
package apperr

import "errors"

var (
	// ErrFolderNotFound means a target directory could not be located in the
	// vault, even after the fuzzy substring search.
	ErrFolderNotFound = errors.New("folder not found")

	ErrNotFound = errors.New("not found")
)
