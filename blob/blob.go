// Package blob holds in-memory binary objects and the registry handing out
// temporary, revocable references ("blob:" URLs) to them.
package blob

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Media types used by the conversion.
const (
	TypeSVG = "image/svg+xml;charset=utf-8"
	TypePNG = "image/png"
)

// Scheme prefixes every URL issued by a Registry.
const Scheme = "blob:"

// ErrUnknownURL is returned when a URL was never issued or has already been revoked.
var ErrUnknownURL = errors.New("unknown or revoked blob url")

// Blob is an immutable byte sequence tagged with a media type.
type Blob struct {
	Data []byte
	Type string
}

// New copies data into a Blob.
func New(data []byte, typ string) Blob {
	return Blob{Data: append([]byte(nil), data...), Type: typ}
}

// Size returns the number of bytes.
func (b Blob) Size() int { return len(b.Data) }

// Registry maps temporary URLs to blobs. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Blob
	issued  int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Blob)}
}

// CreateObjectURL registers b and returns a fresh URL for it.
func (r *Registry) CreateObjectURL(b Blob) (string, error) {
	url := Scheme + xid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]Blob)
	}
	r.entries[url] = b
	r.issued++
	return url, nil
}

// Open returns the blob behind url.
func (r *Registry) Open(url string) (Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.entries[url]
	if !ok {
		return Blob{}, errors.Wrap(ErrUnknownURL, url)
	}
	return b, nil
}

// RevokeObjectURL releases url. Revoking an unknown URL is a no-op,
// matching the browser API; the return value reports whether url was live.
func (r *Registry) RevokeObjectURL(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[url]; !ok {
		return false
	}
	delete(r.entries, url)
	return true
}

// Live returns the number of references not yet revoked.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Issued returns the number of references ever created.
func (r *Registry) Issued() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issued
}
