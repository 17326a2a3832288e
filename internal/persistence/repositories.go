package persistence

import "context"

// BookingRepository stores booking requests.
type BookingRepository interface {
	GetAll(ctx context.Context) []BookingRequest
	GetByID(ctx context.Context, id string) (BookingRequest, bool)
	GetByStatus(ctx context.Context, status BookingStatus) []BookingRequest
	GetByRequester(ctx context.Context, email string) []BookingRequest
	Create(ctx context.Context, input BookingInput) BookingRequest
	Update(ctx context.Context, id string, patch BookingPatch) (BookingRequest, bool)
	AppendApprovalStep(ctx context.Context, id string, step ApprovalStep) (BookingRequest, bool)
	Delete(ctx context.Context, id string) bool
}

// UserRepository stores user accounts.
type UserRepository interface {
	GetAll(ctx context.Context) []User
	GetByID(ctx context.Context, id string) (User, bool)
	GetByEmail(ctx context.Context, email string) (User, bool)
	GetByRole(ctx context.Context, role Role) []User
	Create(ctx context.Context, input UserInput) User
	Update(ctx context.Context, id string, patch UserPatch) (User, bool)
	Delete(ctx context.Context, id string) bool
}

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	GetAll(ctx context.Context) []Notification
	GetByID(ctx context.Context, id string) (Notification, bool)
	GetByUserID(ctx context.Context, userID string) []Notification
	Create(ctx context.Context, input NotificationInput) Notification
	Update(ctx context.Context, id string, patch NotificationPatch) (Notification, bool)
	MarkAsRead(ctx context.Context, id string) bool
	Delete(ctx context.Context, id string) bool
}

// FacilityRepository stores bookable venues.
type FacilityRepository interface {
	GetAll(ctx context.Context) []Facility
	GetByID(ctx context.Context, id string) (Facility, bool)
	Create(ctx context.Context, input FacilityInput) Facility
	Update(ctx context.Context, id string, patch FacilityPatch) (Facility, bool)
	Delete(ctx context.Context, id string) bool
}

// SessionRepository stores the authenticated user of a session slot.
type SessionRepository interface {
	Get(ctx context.Context, key SessionKey) (AuthUser, bool)
	Set(ctx context.Context, key SessionKey, user AuthUser)
	Clear(ctx context.Context, key SessionKey)
}
