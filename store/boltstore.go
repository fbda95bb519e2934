package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/digestorg/libdigest-go/digest"
	"github.com/digestorg/libdigest-go/hasher"
)

var bucketBlobs = []byte("blobs")

// BoltStore implements Store on a single bbolt database file. Bucket keys
// are the 40-byte fixed-layout digest records, so the full digest (not just
// the fingerprint) addresses each blob and keys sort by fingerprint bytes.
type BoltStore struct {
	db   *bbolt.DB
	algo hasher.Algorithm
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string, algo hasher.Algorithm) (*BoltStore, error) {
	if !algo.Valid() {
		return nil, fmt.Errorf("%w: %q", hasher.ErrUnknownAlgorithm, string(algo))
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlobs)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}

	return &BoltStore{db: db, algo: algo}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// key returns the bucket key for a digest: its fixed-layout record.
func key(d digest.Digest) []byte {
	// MarshalBinary on a value digest cannot fail.
	k, _ := d.MarshalBinary()
	return k
}

// Put stores content under its digest after verification.
func (s *BoltStore) Put(d digest.Digest, content []byte) error {
	if err := verifyContent(s.algo, d, content); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketBlobs).Put(key(d), content); err != nil {
			return fmt.Errorf("store: put blob: %w", err)
		}
		return nil
	})
}

// Get retrieves content by digest.
func (s *BoltStore) Get(d digest.Digest) ([]byte, error) {
	var content []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBlobs).Get(key(d))
		if data == nil {
			return ErrNotFound
		}
		// bbolt values are only valid inside the transaction.
		content = make([]byte, len(data))
		copy(content, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// Has checks if content exists for the given digest.
func (s *BoltStore) Has(d digest.Digest) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketBlobs).Get(key(d)) != nil
		return nil
	})
	return found, err
}

// Delete removes content by digest.
func (s *BoltStore) Delete(d digest.Digest) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBlobs)
		k := key(d)
		if b.Get(k) == nil {
			return ErrNotFound
		}
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("store: delete blob: %w", err)
		}
		return nil
	})
}

// List returns all stored digests, decoded from the bucket keys.
func (s *BoltStore) List() ([]digest.Digest, error) {
	var result []digest.Digest
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlobs).ForEach(func(k, _ []byte) error {
			var d digest.Digest
			if err := d.UnmarshalBinary(k); err != nil {
				return fmt.Errorf("store: decode blob key: %w", err)
			}
			result = append(result, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
