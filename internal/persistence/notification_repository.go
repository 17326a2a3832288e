package persistence

import (
	"context"

	"github.com/example/facility-booking/internal/kvstore"
)

// NotificationStore is the key-value backed NotificationRepository.
type NotificationStore struct {
	items collection[Notification]
	opts  options
}

var _ NotificationRepository = (*NotificationStore)(nil)

// NewNotificationStore returns a repository persisting notifications under
// NotificationsKey.
func NewNotificationStore(store *kvstore.Adapter, opts ...Option) *NotificationStore {
	return &NotificationStore{
		items: collection[Notification]{
			store: store,
			key:   NotificationsKey,
			idOf:  func(n Notification) string { return n.ID },
		},
		opts: buildOptions(opts),
	}
}

func (r *NotificationStore) GetAll(ctx context.Context) []Notification {
	return r.items.all(ctx)
}

func (r *NotificationStore) GetByID(ctx context.Context, id string) (Notification, bool) {
	return r.items.find(ctx, id)
}

// GetByUserID returns the notifications addressed to userID, oldest first.
func (r *NotificationStore) GetByUserID(ctx context.Context, userID string) []Notification {
	return r.items.filter(ctx, func(n Notification) bool { return n.UserID == userID })
}

func (r *NotificationStore) Create(ctx context.Context, input NotificationInput) Notification {
	notification := Notification{
		ID:               r.opts.newID(),
		UserID:           input.UserID,
		Title:            input.Title,
		Message:          input.Message,
		Type:             input.Type,
		Read:             input.Read,
		RelatedRequestID: input.RelatedRequestID,
		CreatedAt:        r.opts.now(),
	}
	r.items.add(ctx, notification)
	return notification
}

func (r *NotificationStore) Update(ctx context.Context, id string, patch NotificationPatch) (Notification, bool) {
	return r.items.modify(ctx, id, func(n Notification) Notification {
		if patch.Title != nil {
			n.Title = *patch.Title
		}
		if patch.Message != nil {
			n.Message = *patch.Message
		}
		if patch.Type != nil {
			n.Type = *patch.Type
		}
		if patch.Read != nil {
			n.Read = *patch.Read
		}
		return n
	})
}

// MarkAsRead flags the notification with id as read.
func (r *NotificationStore) MarkAsRead(ctx context.Context, id string) bool {
	read := true
	_, ok := r.Update(ctx, id, NotificationPatch{Read: &read})
	return ok
}

func (r *NotificationStore) Delete(ctx context.Context, id string) bool {
	return r.items.remove(ctx, id)
}
