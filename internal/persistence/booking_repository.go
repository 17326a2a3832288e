package persistence

import (
	"context"
	"slices"

	"github.com/example/facility-booking/internal/kvstore"
)

// BookingStore is the key-value backed BookingRepository.
type BookingStore struct {
	items collection[BookingRequest]
	opts  options
}

var _ BookingRepository = (*BookingStore)(nil)

// NewBookingStore returns a repository persisting bookings under BookingsKey.
func NewBookingStore(store *kvstore.Adapter, opts ...Option) *BookingStore {
	return &BookingStore{
		items: collection[BookingRequest]{
			store: store,
			key:   BookingsKey,
			idOf:  func(b BookingRequest) string { return b.ID },
		},
		opts: buildOptions(opts),
	}
}

// GetAll returns every booking in insertion order.
func (r *BookingStore) GetAll(ctx context.Context) []BookingRequest {
	return r.items.all(ctx)
}

// GetByID returns the booking with id.
func (r *BookingStore) GetByID(ctx context.Context, id string) (BookingRequest, bool) {
	return r.items.find(ctx, id)
}

// GetByStatus returns the bookings currently in status, order preserved.
func (r *BookingStore) GetByStatus(ctx context.Context, status BookingStatus) []BookingRequest {
	return r.items.filter(ctx, func(b BookingRequest) bool { return b.Status == status })
}

// GetByRequester returns the bookings submitted with email as contact.
func (r *BookingStore) GetByRequester(ctx context.Context, email string) []BookingRequest {
	return r.items.filter(ctx, func(b BookingRequest) bool { return b.RequesterInfo.Email == email })
}

// Create stores a new booking. A blank status defaults to pending.
func (r *BookingStore) Create(ctx context.Context, input BookingInput) BookingRequest {
	now := r.opts.now()
	booking := BookingRequest{
		ID:               r.opts.newID(),
		RequesterInfo:    input.RequesterInfo,
		EventDetails:     input.EventDetails,
		Status:           input.Status,
		ApprovalHistory:  slices.Clone(input.ApprovalHistory),
		SubmissionMethod: input.SubmissionMethod,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if booking.Status == "" {
		booking.Status = StatusPending
	}
	if booking.ApprovalHistory == nil {
		booking.ApprovalHistory = []ApprovalStep{}
	}
	r.items.add(ctx, booking)
	return booking
}

// Update merges patch over the booking with id.
func (r *BookingStore) Update(ctx context.Context, id string, patch BookingPatch) (BookingRequest, bool) {
	return r.items.modify(ctx, id, func(b BookingRequest) BookingRequest {
		if patch.RequesterInfo != nil {
			b.RequesterInfo = *patch.RequesterInfo
		}
		if patch.EventDetails != nil {
			b.EventDetails = *patch.EventDetails
		}
		if patch.Status != nil {
			b.Status = *patch.Status
		}
		if patch.SubmissionMethod != nil {
			b.SubmissionMethod = *patch.SubmissionMethod
		}
		b.UpdatedAt = r.opts.touch(b.UpdatedAt)
		return b
	})
}

// AppendApprovalStep adds step to the end of the booking's approval history.
// A step without id or timestamp receives generated ones.
func (r *BookingStore) AppendApprovalStep(ctx context.Context, id string, step ApprovalStep) (BookingRequest, bool) {
	return r.items.modify(ctx, id, func(b BookingRequest) BookingRequest {
		b.UpdatedAt = r.opts.touch(b.UpdatedAt)
		if step.ID == "" {
			step.ID = r.opts.newID()
		}
		if step.Timestamp.IsZero() {
			step.Timestamp = b.UpdatedAt
		}
		b.ApprovalHistory = append(slices.Clone(b.ApprovalHistory), step)
		return b
	})
}

// Delete removes the booking with id.
func (r *BookingStore) Delete(ctx context.Context, id string) bool {
	return r.items.remove(ctx, id)
}
