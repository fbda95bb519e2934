// Package store provides content-addressed storage keyed by digests.
package store

import (
	"fmt"

	"github.com/digestorg/libdigest-go/digest"
	"github.com/digestorg/libdigest-go/hasher"
)

// Store is a content-addressed blob store. Content is stored and retrieved
// under its Digest; the store never invents keys of its own.
type Store interface {
	// Put stores content under d. The content is re-hashed with the store's
	// algorithm and rejected with ErrDigestMismatch if it does not match d,
	// so a store never holds content its key lies about.
	Put(d digest.Digest, content []byte) error

	// Get retrieves the content for d.
	Get(d digest.Digest) ([]byte, error)

	// Has checks whether content exists for d.
	Has(d digest.Digest) (bool, error)

	// Delete removes the content for d.
	Delete(d digest.Digest) error

	// List returns the digests of all stored content.
	List() ([]digest.Digest, error)
}

// verifyContent re-hashes content under algo and checks it against d.
func verifyContent(algo hasher.Algorithm, d digest.Digest, content []byte) error {
	actual, err := algo.Sum(content)
	if err != nil {
		return err
	}
	if actual != d {
		return fmt.Errorf("%w: content is %s, key is %s", ErrDigestMismatch, actual, d)
	}
	return nil
}
