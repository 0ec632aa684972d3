package ports

import "context"

// KeyValueStore is the persistent storage behind the session. Get returns
// domain.ErrEntryNotFound for missing keys; Delete of a missing key is a no-op.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
