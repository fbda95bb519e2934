package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/digestorg/libdigest-go/digest"
	"github.com/digestorg/libdigest-go/hasher"
)

// FileStore implements Store using the local filesystem.
// Content is stored at: {baseDir}/{hex[:2]}/{hex}, where hex is the
// fingerprint of the content. The first byte (2 hex chars) is used as a
// subdirectory for sharding.
type FileStore struct {
	baseDir string
	algo    hasher.Algorithm
	mu      sync.RWMutex
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-based content store rooted at baseDir, which
// is created if it does not exist. Content written through Put is verified
// with algo.
func NewFileStore(baseDir string, algo hasher.Algorithm) (*FileStore, error) {
	if baseDir == "" {
		return nil, ErrInvalidBaseDir
	}
	if !algo.Valid() {
		return nil, fmt.Errorf("%w: %q", hasher.ErrUnknownAlgorithm, string(algo))
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return &FileStore{baseDir: baseDir, algo: algo}, nil
}

// DigestToPath converts a digest to its filesystem path under baseDir.
// Uses the first fingerprint byte as subdirectory: {base}/{ab}/{abcdef...}
func DigestToPath(baseDir string, d digest.Digest) string {
	hexHash := d.Fingerprint.Hex()
	return filepath.Join(baseDir, hexHash[:2], hexHash)
}

// shardDir returns the shard directory path for a digest.
func (fs *FileStore) shardDir(d digest.Digest) string {
	return filepath.Join(fs.baseDir, d.Fingerprint.Hex()[:2])
}

// filePath returns the full file path for a digest.
func (fs *FileStore) filePath(d digest.Digest) string {
	return DigestToPath(fs.baseDir, d)
}

// Put stores content under its digest after verifying the content actually
// hashes to it.
func (fs *FileStore) Put(d digest.Digest, content []byte) error {
	if err := verifyContent(fs.algo, d, content); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	shard := fs.shardDir(d)
	if err := os.MkdirAll(shard, 0700); err != nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	// Write to a temp file and rename so a crash never leaves a truncated
	// blob under a valid fingerprint name.
	tmp, err := os.CreateTemp(shard, "put-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if err := os.Rename(tmpName, fs.filePath(d)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return nil
}

// Get retrieves content by digest. Content stored under the same fingerprint
// but a different size is reported as ErrDigestMismatch, never returned.
func (fs *FileStore) Get(d digest.Digest) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.filePath(d))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if uint64(len(data)) != d.SizeBytes {
		return nil, fmt.Errorf("%w: stored %d bytes, key says %d",
			ErrDigestMismatch, len(data), d.SizeBytes)
	}

	return data, nil
}

// Has checks if content exists for the given digest.
func (fs *FileStore) Has(d digest.Digest) (bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	info, err := os.Stat(fs.filePath(d))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if uint64(info.Size()) != d.SizeBytes {
		return false, fmt.Errorf("%w: stored %d bytes, key says %d",
			ErrDigestMismatch, info.Size(), d.SizeBytes)
	}

	return true, nil
}

// Delete removes content by digest.
func (fs *FileStore) Delete(d digest.Digest) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	err := os.Remove(fs.filePath(d))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return nil
}

// List returns all stored digests by scanning the shard directories.
// Fingerprints come from the file names, sizes from the files themselves.
func (fs *FileStore) List() ([]digest.Digest, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var result []digest.Digest

	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		shardName := entry.Name()
		// Shard directories are 2-character hex strings.
		if len(shardName) != 2 {
			continue
		}

		shardPath := filepath.Join(fs.baseDir, shardName)
		files, err := os.ReadDir(shardPath)
		if err != nil {
			continue
		}

		for _, f := range files {
			if f.IsDir() {
				continue
			}

			fp, err := digest.FingerprintFromHex(f.Name())
			if err != nil {
				continue // skip temp files and stray names
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			result = append(result, digest.NewDigest(fp, uint64(info.Size())))
		}
	}

	return result, nil
}
