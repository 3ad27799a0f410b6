// Package metadata is the client's local key/value store, the persistence
// medium behind the session's "local storage" slot.
//
// Values are opaque byte slices. A missing key is not an error: Get returns
// (nil, nil).
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
