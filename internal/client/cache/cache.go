// Package cache keeps the last successfully fetched snapshot of named entity
// collections in the persistent key/value store. It is a degraded-mode data
// source: writes replace, reads never fail on absence or corruption, and
// nothing expires on its own.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

const timestampSuffix = "_timestamp"

// DataKey is the store key holding the serialized snapshot of name.
func DataKey(name string) string { return common.CacheKeyPrefix + name }

// TimestampKey is the store key holding the write instant of name.
func TimestampKey(name string) string { return common.CacheKeyPrefix + name + timestampSuffix }

// Service stores one snapshot per collection name.
type Service struct {
	store kvstore.Store
	log   logging.Logger
	now   func() time.Time
}

func NewService(store kvstore.Store, log logging.Logger) *Service {
	return &Service{store: store, log: log.With("component", "cache"), now: time.Now}
}

// Store serializes entities and writes it together with the current instant
// in one batch, discarding the previous snapshot. A failure is logged and
// returned as a *StorageFault; callers on a fetch path are expected to
// ignore it.
func (s *Service) Store(ctx context.Context, name string, entities any) error {
	data, err := json.Marshal(entities)
	if err != nil {
		fault := &StorageFault{Op: "serialize", Key: DataKey(name), Err: err}
		s.log.Error(ctx, "cache write skipped", "collection", name, "error", err)
		return fault
	}

	writtenAt := s.now().UTC().Format(time.RFC3339Nano)
	pairs := []kvstore.Pair{
		{Key: DataKey(name), Value: string(data)},
		{Key: TimestampKey(name), Value: writtenAt},
	}
	if err := s.store.MultiSet(ctx, pairs); err != nil {
		s.log.Error(ctx, "cache write failed", "collection", name, "error", err)
		return &StorageFault{Op: "write", Key: DataKey(name), Err: err}
	}

	s.log.Debug(ctx, "cache written", "collection", name, "bytes", len(data))
	return nil
}

// Retrieve decodes the snapshot of name into dst. It returns found=false with
// a nil error when nothing was stored or the stored value cannot be decoded.
// Only a store read failure yields an error.
func (s *Service) Retrieve(ctx context.Context, name string, dst any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, DataKey(name))
	if err != nil {
		s.log.Error(ctx, "cache read failed", "collection", name, "error", err)
		return false, &StorageFault{Op: "read", Key: DataKey(name), Err: err}
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn(ctx, "cache snapshot unreadable, treating as absent", "collection", name, "error", err)
		return false, nil
	}
	return true, nil
}

// TimestampOf returns when the snapshot of name was written.
func (s *Service) TimestampOf(ctx context.Context, name string) (time.Time, bool, error) {
	raw, ok, err := s.store.Get(ctx, TimestampKey(name))
	if err != nil {
		s.log.Error(ctx, "cache timestamp read failed", "collection", name, "error", err)
		return time.Time{}, false, &StorageFault{Op: "read", Key: TimestampKey(name), Err: err}
	}
	if !ok {
		return time.Time{}, false, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.log.Warn(ctx, "cache timestamp unreadable", "collection", name, "error", err)
		return time.Time{}, false, nil
	}
	return ts, true, nil
}

// HasSnapshot reports whether a snapshot of name is stored. A read failure
// counts as no snapshot.
func (s *Service) HasSnapshot(ctx context.Context, name string) bool {
	_, ok, err := s.store.Get(ctx, DataKey(name))
	if err != nil {
		s.log.Error(ctx, "cache probe failed", "collection", name, "error", err)
		return false
	}
	return ok
}

// ClearAll removes every key under the cache prefix and nothing else. It
// returns the number of keys removed.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	keys, err := s.store.GetAllKeys(ctx)
	if err != nil {
		s.log.Error(ctx, "cache clear failed", "error", err)
		return 0, &StorageFault{Op: "list", Key: common.CacheKeyPrefix + "*", Err: err}
	}

	owned := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, common.CacheKeyPrefix) {
			owned = append(owned, k)
		}
	}
	if len(owned) == 0 {
		return 0, nil
	}

	if err := s.store.MultiRemove(ctx, owned); err != nil {
		s.log.Error(ctx, "cache clear failed", "error", err)
		return 0, &StorageFault{Op: "remove", Key: common.CacheKeyPrefix + "*", Err: err}
	}

	s.log.Info(ctx, "cache cleared", "keys", len(owned))
	return len(owned), nil
}
