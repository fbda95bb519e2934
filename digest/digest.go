// Package digest defines the content-addressing key types Fingerprint and
// Digest.
//
// A Fingerprint is the fixed 32-byte output of a cryptographic hash applied
// to some content. A Digest pairs a Fingerprint with the byte length of that
// content, because remote systems addressing content by hash commonly need
// the size for allocation and validation before fetching.
//
// Both types have value semantics: they are immutable once constructed,
// comparable with ==, and usable directly as map keys. Equal values are
// identical keys.
package digest

import (
	"bytes"
	"fmt"
)

// FingerprintSize is the exact byte length of a Fingerprint (a 256-bit hash).
const FingerprintSize = 32

// Fingerprint is the 32-byte output of a cryptographic hash function.
// It is an opaque identity value: two Fingerprints are equal if and only if
// their bytes are equal.
type Fingerprint [FingerprintSize]byte

// FingerprintFromBytes constructs a Fingerprint from exactly 32 raw bytes.
// Any other input length is rejected with ErrInvalidFingerprint; the input is
// never truncated or padded, since a silently reshaped hash would corrupt
// content addressing.
func FingerprintFromBytes(b []byte) (Fingerprint, error) {
	var f Fingerprint
	if len(b) != FingerprintSize {
		return f, fmt.Errorf("%w: got %d bytes", ErrInvalidFingerprint, len(b))
	}
	copy(f[:], b)
	return f, nil
}

// Bytes returns a copy of the fingerprint's 32 bytes.
func (f Fingerprint) Bytes() []byte {
	b := make([]byte, FingerprintSize)
	copy(b, f[:])
	return b
}

// IsZero reports whether f is the all-zero fingerprint (the zero value).
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// Compare returns -1, 0 or 1 comparing fingerprints lexicographically by
// their raw bytes. The order is total and consistent with ==.
func (f Fingerprint) Compare(other Fingerprint) int {
	return bytes.Compare(f[:], other[:])
}

// Digest is a Fingerprint annotated with the byte length of the content the
// fingerprint was computed over.
//
// The size field is taken on trust: the type has no access to the original
// content, so "SizeBytes equals the true content length" is a caller
// contract, not a checked invariant.
type Digest struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	SizeBytes   uint64      `json:"size_bytes"`
}

// NewDigest pairs a fingerprint with the content size it was computed over.
// This is a pure pairing operation; no computation or validation is
// performed.
func NewDigest(f Fingerprint, sizeBytes uint64) Digest {
	return Digest{Fingerprint: f, SizeBytes: sizeBytes}
}

// Compare returns -1, 0 or 1 ordering digests by fingerprint bytes, then by
// size. The order is total and consistent with ==.
func (d Digest) Compare(other Digest) int {
	if c := d.Fingerprint.Compare(other.Fingerprint); c != 0 {
		return c
	}
	switch {
	case d.SizeBytes < other.SizeBytes:
		return -1
	case d.SizeBytes > other.SizeBytes:
		return 1
	}
	return 0
}
