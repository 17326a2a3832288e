package persistence

import (
	"context"

	"github.com/example/facility-booking/internal/kvstore"
)

// collection performs whole-array read-modify-write cycles on one storage
// key. Concurrent writers are not coordinated: the last write wins.
type collection[T any] struct {
	store *kvstore.Adapter
	key   string
	idOf  func(T) string
}

func (c collection[T]) all(ctx context.Context) []T {
	return kvstore.ReadList[T](ctx, c.store, c.key)
}

func (c collection[T]) find(ctx context.Context, id string) (T, bool) {
	for _, item := range c.all(ctx) {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c collection[T]) filter(ctx context.Context, keep func(T) bool) []T {
	matched := []T{}
	for _, item := range c.all(ctx) {
		if keep(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

func (c collection[T]) add(ctx context.Context, item T) {
	items := c.all(ctx)
	kvstore.WriteList(ctx, c.store, c.key, append(items, item))
}

// modify applies change to the record with id and persists the result.
func (c collection[T]) modify(ctx context.Context, id string, change func(T) T) (T, bool) {
	items := c.all(ctx)
	for i, item := range items {
		if c.idOf(item) != id {
			continue
		}
		items[i] = change(item)
		kvstore.WriteList(ctx, c.store, c.key, items)
		return items[i], true
	}
	var zero T
	return zero, false
}

func (c collection[T]) remove(ctx context.Context, id string) bool {
	items := c.all(ctx)
	kept := items[:0:0]
	for _, item := range items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false
	}
	kvstore.WriteList(ctx, c.store, c.key, kept)
	return true
}
