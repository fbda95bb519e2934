package store

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestorg/libdigest-go/hasher"
)

// newBlobServer serves the given blobs at /blobs/{fingerprint-hex}.
func newBlobServer(t *testing.T, blobs map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hexHash := strings.TrimPrefix(r.URL.Path, "/blobs/")
		content, ok := blobs[hexHash]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	local, err := NewMemStore(hasher.SHA256)
	require.NoError(t, err)
	r, err := NewResolver(local, hasher.SHA256)
	require.NoError(t, err)
	return r
}

func TestNewResolver_UnknownAlgorithm(t *testing.T) {
	_, err := NewResolver(nil, hasher.Algorithm("nope"))
	assert.ErrorIs(t, err, hasher.ErrUnknownAlgorithm)
}

func TestResolver_LocalHit(t *testing.T) {
	r := newTestResolver(t)
	content := []byte("already local")
	d := digestOf(t, content)
	require.NoError(t, r.Store.Put(d, content))

	// No endpoints configured; local store must satisfy the fetch.
	got, err := r.Fetch(d)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestResolver_RemoteFetchAndCache(t *testing.T) {
	content := []byte("remote content")
	d := digestOf(t, content)

	srv := newBlobServer(t, map[string][]byte{d.Fingerprint.Hex(): content})

	r := newTestResolver(t)
	r.Endpoints = []string{srv.URL}

	got, err := r.Fetch(d)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// The verified payload was cached locally.
	cached, err := r.Store.Get(d)
	require.NoError(t, err)
	assert.Equal(t, content, cached)
}

func TestResolver_RejectsLyingEndpoint(t *testing.T) {
	content := []byte("real content")
	d := digestOf(t, content)

	// The endpoint serves different bytes of the right length under the
	// requested fingerprint, so only hash verification can catch it.
	lying := newBlobServer(t, map[string][]byte{d.Fingerprint.Hex(): []byte("fake content")})

	r := newTestResolver(t)
	r.Endpoints = []string{lying.URL}

	_, err := r.Fetch(d)
	assert.ErrorIs(t, err, ErrNotFound)

	// Nothing forged reached the local store.
	found, err := r.Store.Has(d)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolver_FallsThroughToHonestEndpoint(t *testing.T) {
	content := []byte("the genuine article")
	d := digestOf(t, content)

	lying := newBlobServer(t, map[string][]byte{d.Fingerprint.Hex(): []byte("not it at all..")})
	honest := newBlobServer(t, map[string][]byte{d.Fingerprint.Hex(): content})

	r := newTestResolver(t)
	r.Endpoints = []string{lying.URL, honest.URL}

	got, err := r.Fetch(d)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestResolver_AllSourcesMiss(t *testing.T) {
	srv := newBlobServer(t, nil)

	r := newTestResolver(t)
	r.Endpoints = []string{srv.URL}

	_, err := r.Fetch(digestOf(t, []byte("nowhere")))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_NoSources(t *testing.T) {
	r, err := NewResolver(nil, hasher.SHA256)
	require.NoError(t, err)

	_, err = r.Fetch(digestOf(t, []byte("anything")))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_OversizedDigest(t *testing.T) {
	content := []byte("small")
	d := digestOf(t, content)
	d.SizeBytes = MaxContentSize + 1

	srv := newBlobServer(t, map[string][]byte{d.Fingerprint.Hex(): content})

	r := newTestResolver(t)
	r.Endpoints = []string{srv.URL}

	_, err := r.Fetch(d)
	assert.ErrorIs(t, err, ErrNotFound)
}
