// Package storage defines the durable key-value capability the stores
// persist through, plus wrappers shared by every backend.
package storage

import "context"

// Storage loads and saves opaque values by key. Load reports found=false
// with a nil error when the key has never been written.
type Storage interface {
	Load(ctx context.Context, key string) (value []byte, found bool, err error)
	Save(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prefixed namespaces every key of an underlying Storage.
type Prefixed struct {
	next   Storage
	prefix string
}

// WithPrefix returns a Storage that prepends prefix to every key.
func WithPrefix(next Storage, prefix string) *Prefixed {
	return &Prefixed{next: next, prefix: prefix}
}

// Load implements Storage.
func (p *Prefixed) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return p.next.Load(ctx, p.prefix+key)
}

// Save implements Storage.
func (p *Prefixed) Save(ctx context.Context, key string, value []byte) error {
	return p.next.Save(ctx, p.prefix+key, value)
}

// SessionPrefix returns the key namespace for one shopper session.
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}
