package persistence

import (
	"context"

	"github.com/example/facility-booking/internal/kvstore"
)

// SessionStore keeps each session as a single object under its SessionKey.
type SessionStore struct {
	store *kvstore.Adapter
}

var _ SessionRepository = (*SessionStore)(nil)

// NewSessionStore returns a session repository backed by store.
func NewSessionStore(store *kvstore.Adapter) *SessionStore {
	return &SessionStore{store: store}
}

// Get returns the user stored in slot key. Absent or corrupt records read as
// no session.
func (r *SessionStore) Get(ctx context.Context, key SessionKey) (AuthUser, bool) {
	var user AuthUser
	if !r.store.ReadObject(ctx, string(key), &user) {
		return AuthUser{}, false
	}
	return user, true
}

// Set overwrites any session held in slot key.
func (r *SessionStore) Set(ctx context.Context, key SessionKey, user AuthUser) {
	r.store.WriteObject(ctx, string(key), user)
}

// Clear removes slot key.
func (r *SessionStore) Clear(ctx context.Context, key SessionKey) {
	r.store.Remove(ctx, string(key))
}
