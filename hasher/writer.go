package hasher

import (
	"hash"
	"io"

	"github.com/digestorg/libdigest-go/digest"
)

// Writer tees everything written to it through a hash on its way to an
// underlying writer, so content can be stored and fingerprinted in one
// streaming pass without buffering it.
type Writer struct {
	w io.Writer
	h hash.Hash
	n uint64
}

// NewWriter wraps w with digest computation under the given algorithm.
func NewWriter(w io.Writer, algo Algorithm) (*Writer, error) {
	h, err := algo.New()
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, h: h}, nil
}

// Write forwards p to the underlying writer, counting and hashing the bytes
// actually written.
func (dw *Writer) Write(p []byte) (int, error) {
	n, err := dw.w.Write(p)
	if n > 0 {
		dw.h.Write(p[:n])
		dw.n += uint64(n)
	}
	return n, err
}

// Digest returns the digest of all bytes written so far. The writer remains
// usable afterwards.
func (dw *Writer) Digest() digest.Digest {
	// The hash state always holds exactly FingerprintSize bytes, so the
	// construction cannot fail.
	f, _ := digest.FingerprintFromBytes(dw.h.Sum(nil))
	return digest.NewDigest(f, dw.n)
}

// FromReader consumes r to EOF and returns the digest of its contents
// without retaining them.
func FromReader(r io.Reader, algo Algorithm) (digest.Digest, error) {
	dw, err := NewWriter(io.Discard, algo)
	if err != nil {
		return digest.Digest{}, err
	}
	if _, err := io.Copy(dw, r); err != nil {
		return digest.Digest{}, err
	}
	return dw.Digest(), nil
}
