// Package kvstore persists named collections of records in a key-value medium.
//
// Every record type lives under one key as a JSON array; singleton records
// (the active session) live under their own key as a JSON object. Apart from
// Exists, the Adapter never surfaces medium or decoding failures to callers:
// they are logged and degrade to empty reads or dropped writes.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/logging"
)

// ErrNotFound is returned by a Store when the key holds no value.
var ErrNotFound = errors.New("kvstore: not found")

// Store is the persistent medium backing the adapter.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Adapter reads and writes typed values against a Store.
//
// A nil store models an environment without a persistent medium: reads return
// nothing and writes are no-ops.
type Adapter struct {
	store  Store
	logger *logrus.Entry
}

// NewAdapter wraps store. Either argument may be nil.
func NewAdapter(store Store, logger *logrus.Entry) *Adapter {
	return &Adapter{store: store, logger: logging.Or(logger).WithField("component", "kvstore")}
}

// Available reports whether a persistent medium is attached.
func (a *Adapter) Available() bool {
	return a != nil && a.store != nil
}

func (a *Adapter) loggerFor(ctx context.Context, key string) *logrus.Entry {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger.WithField("key", key)
	}
	return a.logger.WithField("key", key)
}

// ReadList returns the collection stored under key. A missing key, an
// unavailable medium, or undecodable data all yield an empty slice; the stored
// bytes are never repaired.
func ReadList[T any](ctx context.Context, a *Adapter, key string) []T {
	items := []T{}
	if !a.Available() {
		return items
	}

	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.loggerFor(ctx, key).WithError(err).Error("error reading from storage")
		}
		return items
	}

	if err := json.Unmarshal(raw, &items); err != nil {
		a.loggerFor(ctx, key).WithError(err).Error("error decoding stored collection")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// WriteList replaces the collection stored under key. Failures are logged and
// the write is dropped.
func WriteList[T any](ctx context.Context, a *Adapter, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	a.WriteObject(ctx, key, items)
}

// ReadObject decodes the value under key into dst and reports whether it did.
func (a *Adapter) ReadObject(ctx context.Context, key string, dst any) bool {
	if !a.Available() {
		return false
	}

	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.loggerFor(ctx, key).WithError(err).Error("error reading from storage")
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		a.loggerFor(ctx, key).WithError(err).Error("error decoding stored value")
		return false
	}
	return true
}

// WriteObject encodes v and stores it under key. Failures are logged and the
// write is dropped.
func (a *Adapter) WriteObject(ctx context.Context, key string, v any) {
	if !a.Available() {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		a.loggerFor(ctx, key).WithError(err).Error("error encoding value for storage")
		return
	}

	if err := a.store.Set(ctx, key, raw); err != nil {
		a.loggerFor(ctx, key).WithError(err).Error("error saving to storage")
	}
}

// Remove deletes key. Removing an absent key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if !a.Available() {
		return
	}
	if err := a.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		a.loggerFor(ctx, key).WithError(err).Error("error removing from storage")
	}
}

// Exists reports whether key currently holds a value, corrupt or not. A
// medium failure is returned as an error rather than treated as absence.
func (a *Adapter) Exists(ctx context.Context, key string) (bool, error) {
	if !a.Available() {
		return false, nil
	}
	_, err := a.store.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	}
	a.loggerFor(ctx, key).WithError(err).Error("error reading from storage")
	return false, fmt.Errorf("check %s: %w", key, err)
}
