package store

import "errors"

var (
	// ErrNotFound indicates no content exists for the given digest.
	ErrNotFound = errors.New("store: content not found")

	// ErrDigestMismatch indicates content does not hash to the digest it was
	// keyed or fetched under.
	ErrDigestMismatch = errors.New("store: content does not match digest")

	// ErrInvalidBaseDir indicates the base directory path is invalid.
	ErrInvalidBaseDir = errors.New("store: invalid base directory")

	// ErrIOFailure indicates a file read/write error.
	ErrIOFailure = errors.New("store: I/O failure")
)
