package digest

import "errors"

var (
	// ErrInvalidFingerprint indicates fingerprint input is not exactly 32 bytes.
	ErrInvalidFingerprint = errors.New("digest: fingerprint must be 32 bytes")

	// ErrInvalidEncoding indicates a binary digest record is not exactly 40 bytes.
	ErrInvalidEncoding = errors.New("digest: encoded digest must be 40 bytes")
)
