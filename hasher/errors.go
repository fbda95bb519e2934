package hasher

import "errors"

var (
	// ErrUnknownAlgorithm indicates the algorithm name is not registered.
	ErrUnknownAlgorithm = errors.New("hasher: unknown algorithm")
)
