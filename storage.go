package bookshelf

import "context"

// Persister reads and writes a named blob of bytes. Get returns
// ErrBlobNotFound when nothing was ever written under the key.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Close() error
}
