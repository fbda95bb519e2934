package store

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/digestorg/libdigest-go/digest"
	"github.com/digestorg/libdigest-go/hasher"
)

// MaxContentSize is the maximum content size the resolver will fetch
// remotely (1 GB). This prevents memory exhaustion from hostile digests.
const MaxContentSize = 1 << 30

// Resolver fetches content by digest from multiple sources in priority
// order: local Store -> remote HTTP endpoints. Every remote payload is
// re-hashed and checked against the requested digest before it is returned,
// so endpoints are never trusted.
type Resolver struct {
	Store     Store            // local content-addressed storage; may be nil
	Endpoints []string         // remote base URLs (e.g. "http://localhost:8080")
	Algorithm hasher.Algorithm // algorithm used to verify remote payloads
	Client    *http.Client     // HTTP client for remote fetches; nil uses default
}

// NewResolver creates a Resolver over the given local store, verifying
// remote content with algo. Endpoints and Client can be set after creation.
func NewResolver(local Store, algo hasher.Algorithm) (*Resolver, error) {
	if !algo.Valid() {
		return nil, fmt.Errorf("%w: %q", hasher.ErrUnknownAlgorithm, string(algo))
	}
	return &Resolver{
		Store:     local,
		Algorithm: algo,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Fetch retrieves the content for d, trying sources in order:
//  1. Local Store
//  2. Remote HTTP endpoints (GET /blobs/{fingerprint-hex})
//
// A remote payload whose digest does not match d is discarded and the next
// endpoint is tried. Verified remote content is cached in the local store
// best-effort. Returns ErrNotFound if every source fails.
func (r *Resolver) Fetch(d digest.Digest) ([]byte, error) {
	// 1. Try local storage first.
	if r.Store != nil {
		content, err := r.Store.Get(d)
		if err == nil {
			return content, nil
		}
		// Only continue if not found; other errors are real failures.
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("resolver: local store: %w", err)
		}
	}

	// 2. Try remote endpoints.
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	for _, ep := range r.Endpoints {
		content, err := r.fetchFromEndpoint(client, ep, d)
		if err != nil {
			continue // try next endpoint
		}
		if verifyContent(r.Algorithm, d, content) != nil {
			continue // endpoint served bytes that do not match the key
		}
		if r.Store != nil {
			_ = r.Store.Put(d, content) // best-effort cache
		}
		return content, nil
	}

	return nil, fmt.Errorf("resolver: %w: %s", ErrNotFound, d)
}

// fetchFromEndpoint fetches content from a single endpoint:
// GET {baseURL}/blobs/{fingerprint-hex}
//
// The requested digest bounds the read: the body may be at most d.SizeBytes
// long, so a misbehaving endpoint cannot force an unbounded allocation.
func (r *Resolver) fetchFromEndpoint(client *http.Client, baseURL string, d digest.Digest) ([]byte, error) {
	if d.SizeBytes > MaxContentSize {
		return nil, fmt.Errorf("resolver: content size %d exceeds limit %d", d.SizeBytes, MaxContentSize)
	}
	url := baseURL + "/blobs/" + d.Fingerprint.Hex()

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("resolver: endpoint %s: %w", baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolver: endpoint %s: HTTP %d", baseURL, resp.StatusCode)
	}

	// Read one byte past the expected size to detect oversized bodies.
	content, err := io.ReadAll(io.LimitReader(resp.Body, int64(d.SizeBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("resolver: endpoint %s: read body: %w", baseURL, err)
	}
	if uint64(len(content)) != d.SizeBytes {
		return nil, fmt.Errorf("resolver: endpoint %s: %w: got %d bytes, want %d",
			baseURL, ErrDigestMismatch, len(content), d.SizeBytes)
	}

	return content, nil
}
