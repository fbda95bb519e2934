package manifest

import "errors"

var (
	// ErrEmptyPath indicates an entry with an empty path.
	ErrEmptyPath = errors.New("manifest: entry path is empty")

	// ErrDuplicatePath indicates two entries share a path.
	ErrDuplicatePath = errors.New("manifest: duplicate path")

	// ErrNotCanonical indicates an encoded manifest whose entries are not in
	// path order.
	ErrNotCanonical = errors.New("manifest: entries not in canonical order")
)
