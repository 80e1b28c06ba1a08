package cache

import (
	"context"
	"time"
)

// Snapshot is one stored collection together with its write instant.
type Snapshot[T any] struct {
	Entities  []T
	WrittenAt time.Time
}

// Collection is a typed view of one named snapshot.
type Collection[T any] struct {
	svc  *Service
	name string
}

func NewCollection[T any](svc *Service, name string) *Collection[T] {
	return &Collection[T]{svc: svc, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

// Store replaces the snapshot with entities.
func (c *Collection[T]) Store(ctx context.Context, entities []T) error {
	if entities == nil {
		entities = []T{}
	}
	return c.svc.Store(ctx, c.name, entities)
}

// Retrieve returns (nil, nil) when there is no usable snapshot.
func (c *Collection[T]) Retrieve(ctx context.Context) (*Snapshot[T], error) {
	var entities []T
	found, err := c.svc.Retrieve(ctx, c.name, &entities)
	if err != nil || !found {
		return nil, err
	}

	// a missing timestamp leaves WrittenAt zero; the data is still served
	writtenAt, _, _ := c.svc.TimestampOf(ctx, c.name)
	if entities == nil {
		entities = []T{}
	}
	return &Snapshot[T]{Entities: entities, WrittenAt: writtenAt}, nil
}

// Age reports how old the snapshot is at now. No expiry is applied here;
// judging staleness is up to the caller.
func (c *Collection[T]) Age(ctx context.Context, now time.Time) (time.Duration, bool) {
	ts, ok, err := c.svc.TimestampOf(ctx, c.name)
	if err != nil || !ok {
		return 0, false
	}
	return now.Sub(ts), true
}

func (c *Collection[T]) Exists(ctx context.Context) bool {
	return c.svc.HasSnapshot(ctx, c.name)
}
