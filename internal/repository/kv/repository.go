package kv

import "context"

// Keys of the persisted records.
const (
	KeyClients  = "clients"
	KeyUsers    = "users"
	KeyAuthUser = "authUser"
)

// Store is a string-keyed blob store. Get returns domain.ErrNotFound for a
// key that was never set or has been cleared.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
}
