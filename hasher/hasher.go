// Package hasher supplies the hash algorithms that produce digest
// fingerprints. Every registered algorithm emits exactly 32 bytes; the
// digest types themselves do not care which algorithm produced them.
package hasher

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/digestorg/libdigest-go/digest"
)

// Algorithm identifies a hash algorithm with a 32-byte output.
type Algorithm string

const (
	// SHA256 is the default algorithm.
	SHA256 Algorithm = "sha256"
	// SHA256d is SHA256(SHA256(content)), used as a content commitment by
	// systems that want protection against length-extension.
	SHA256d Algorithm = "sha256d"
	// BLAKE2b256 is BLAKE2b with a 256-bit output.
	BLAKE2b256 Algorithm = "blake2b-256"
	// SHA3256 is SHA3-256.
	SHA3256 Algorithm = "sha3-256"
)

// Default is the algorithm used when callers do not pick one.
const Default = SHA256

// Valid reports whether a names a registered algorithm.
func (a Algorithm) Valid() bool {
	switch a {
	case SHA256, SHA256d, BLAKE2b256, SHA3256:
		return true
	}
	return false
}

// New returns fresh hash state for the algorithm. The returned hash always
// produces digest.FingerprintSize bytes.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case SHA256d:
		return newDoubleSHA256(), nil
	case BLAKE2b256:
		// blake2b.New256 only errors for a non-nil key.
		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, fmt.Errorf("hasher: init blake2b: %w", err)
		}
		return h, nil
	case SHA3256:
		return sha3.New256(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}

// Sum computes the digest of content: its fingerprint under a, paired with
// its byte length.
func (a Algorithm) Sum(content []byte) (digest.Digest, error) {
	h, err := a.New()
	if err != nil {
		return digest.Digest{}, err
	}
	h.Write(content)
	f, err := digest.FingerprintFromBytes(h.Sum(nil))
	if err != nil {
		return digest.Digest{}, err
	}
	return digest.NewDigest(f, uint64(len(content))), nil
}

// EmptyDigest returns the digest of zero-length content under a.
func EmptyDigest(a Algorithm) (digest.Digest, error) {
	return a.Sum(nil)
}

// doubleSHA256 hashes with SHA256 and re-hashes the sum on finalization.
// Write/Sum keep hash.Hash semantics: Sum does not disturb running state.
type doubleSHA256 struct {
	hash.Hash
}

func newDoubleSHA256() hash.Hash {
	return &doubleSHA256{Hash: sha256.New()}
}

func (d *doubleSHA256) Sum(b []byte) []byte {
	first := d.Hash.Sum(nil)
	second := sha256.Sum256(first)
	return append(b, second[:]...)
}
