// Package metadata is the CLI's local key/value store. It keeps the session
// token, the signed-in email and the last listing filters between runs.
package metadata

import (
	"context"
)

// Repository reads and writes opaque values by key. A missing key reads as
// (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
