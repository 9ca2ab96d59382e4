package kv

import "context"

// Store is the best-effort key-value mirror contract. Callers treat failures
// as advisory: the in-memory state stays authoritative and absence of a key
// means "start from defaults".
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
