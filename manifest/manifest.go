// Package manifest maps paths to content digests with one canonical byte
// encoding, so a manifest can itself be content-addressed: equal manifests
// always encode identically and therefore share a digest.
package manifest

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/digestorg/libdigest-go/digest"
	"github.com/digestorg/libdigest-go/hasher"
)

// Canonical encoding: sorted map keys and definite lengths only, so the
// same manifest can never have two encodings.
var encOptions = cbor.EncOptions{
	Sort:        cbor.SortCanonical,
	IndefLength: cbor.IndefLengthForbidden,
}

var em, _ = encOptions.EncMode()

// Strict decoding: duplicate map keys rejected, container sizes bounded so
// a hostile header cannot force a huge allocation.
var decOptions = cbor.DecOptions{
	MaxArrayElements: 65536,
	MaxMapPairs:      65536,
	MaxNestedLevels:  16,
	IndefLength:      cbor.IndefLengthForbidden,
	DupMapKey:        cbor.DupMapKeyEnforcedAPF,
}

var dm, _ = decOptions.DecMode()

// Entry binds one path to the digest of its content.
type Entry struct {
	Path   string
	Digest digest.Digest
}

// Manifest is a sorted, duplicate-free list of entries. Construct with New
// or Decode; the zero value is an empty manifest.
type Manifest struct {
	entries []Entry // sorted by Path, paths unique and non-empty
}

// New builds a manifest from entries in any order. Paths must be non-empty
// and unique; the entries are sorted by path.
func New(entries []Entry) (*Manifest, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for i, e := range sorted {
		if e.Path == "" {
			return nil, ErrEmptyPath
		}
		if i > 0 && e.Path == sorted[i-1].Path {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, e.Path)
		}
	}

	return &Manifest{entries: sorted}, nil
}

// Len returns the number of entries.
func (m *Manifest) Len() int { return len(m.entries) }

// Entries returns a copy of the entries in path order.
func (m *Manifest) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Find returns the digest for path, if present.
func (m *Manifest) Find(path string) (digest.Digest, bool) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Path >= path })
	if i < len(m.entries) && m.entries[i].Path == path {
		return m.entries[i].Digest, true
	}
	return digest.Digest{}, false
}

// wireEntry is the encoded entry shape. Digests travel as their 40-byte
// fixed-layout records.
type wireEntry struct {
	Path   string `cbor:"path"`
	Digest []byte `cbor:"digest"`
}

// Encode returns the canonical encoding of the manifest. Equal manifests
// encode byte-for-byte identically.
func (m *Manifest) Encode() ([]byte, error) {
	wire := make([]wireEntry, len(m.entries))
	for i, e := range m.entries {
		rec, err := e.Digest.MarshalBinary()
		if err != nil {
			return nil, err
		}
		wire[i] = wireEntry{Path: e.Path, Digest: rec}
	}
	data, err := em.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return data, nil
}

// Decode parses a canonical manifest encoding. Entries must arrive in
// strictly increasing path order; anything else is rejected, so every
// manifest accepted by Decode has exactly one encoding.
func Decode(data []byte) (*Manifest, error) {
	var wire []wireEntry
	if err := dm.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	entries := make([]Entry, len(wire))
	for i, w := range wire {
		if w.Path == "" {
			return nil, ErrEmptyPath
		}
		if i > 0 {
			switch {
			case w.Path == wire[i-1].Path:
				return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, w.Path)
			case w.Path < wire[i-1].Path:
				return nil, fmt.Errorf("%w: %q after %q", ErrNotCanonical, w.Path, wire[i-1].Path)
			}
		}
		var d digest.Digest
		if err := d.UnmarshalBinary(w.Digest); err != nil {
			return nil, fmt.Errorf("manifest: entry %q: %w", w.Path, err)
		}
		entries[i] = Entry{Path: w.Path, Digest: d}
	}

	return &Manifest{entries: entries}, nil
}

// Digest returns the digest of the canonical encoding under algo, making
// the manifest itself addressable in a content store.
func (m *Manifest) Digest(algo hasher.Algorithm) (digest.Digest, error) {
	data, err := m.Encode()
	if err != nil {
		return digest.Digest{}, err
	}
	return algo.Sum(data)
}
