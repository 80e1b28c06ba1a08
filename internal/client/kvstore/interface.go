package kvstore

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("store closed")

// Pair is one key/value write in a batch.
type Pair struct {
	Key   string
	Value string
}

// Store is a durable string-keyed, string-valued store.
//
// Get reports a missing key as ("", false, nil); only backend failures are
// returned as errors. MultiSet and MultiRemove apply the whole batch or
// nothing where the backend allows it.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	MultiSet(ctx context.Context, pairs []Pair) error
	Remove(ctx context.Context, key string) error
	MultiRemove(ctx context.Context, keys []string) error
	GetAllKeys(ctx context.Context) ([]string, error)
	Close() error
}
