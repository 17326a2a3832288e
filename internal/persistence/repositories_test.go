package persistence_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/facility-booking/internal/kvstore"
	"github.com/example/facility-booking/internal/persistence"
	"github.com/example/facility-booking/internal/testfixtures"
)

func TestBookingStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create then read returns supplied fields", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		input := testfixtures.NewBookingInput(testfixtures.WithCharge(150))

		created := h.Bookings.Create(ctx, input)

		require.NotEmpty(t, created.ID)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
		assert.Equal(t, testfixtures.ReferenceTime(), created.CreatedAt)

		fetched, ok := h.Bookings.GetByID(ctx, created.ID)
		require.True(t, ok)
		assert.Equal(t, created, fetched)
		assert.Equal(t, input.RequesterInfo, fetched.RequesterInfo)
		assert.Equal(t, input.EventDetails, fetched.EventDetails)
		assert.Equal(t, input.Status, fetched.Status)
		assert.Equal(t, input.SubmissionMethod, fetched.SubmissionMethod)
		assert.Empty(t, fetched.ApprovalHistory)
	})

	t.Run("blank status defaults to pending", func(t *testing.T) {
		h := testfixtures.NewHarness(t)

		created := h.Bookings.Create(ctx, testfixtures.NewBookingInput(testfixtures.WithBookingStatus("")))

		assert.Equal(t, persistence.StatusPending, created.Status)
	})

	t.Run("unknown id reads as absent", func(t *testing.T) {
		h := testfixtures.NewHarness(t)

		_, ok := h.Bookings.GetByID(ctx, "missing")
		assert.False(t, ok)

		status := persistence.StatusApproved
		_, ok = h.Bookings.Update(ctx, "missing", persistence.BookingPatch{Status: &status})
		assert.False(t, ok)
		assert.Empty(t, h.Bookings.GetAll(ctx))
	})

	t.Run("deletes are idempotent", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		keep := h.Bookings.Create(ctx, testfixtures.NewBookingInput())
		drop := h.Bookings.Create(ctx, testfixtures.NewBookingInput())

		assert.False(t, h.Bookings.Delete(ctx, "missing"))
		assert.Len(t, h.Bookings.GetAll(ctx), 2)

		assert.True(t, h.Bookings.Delete(ctx, drop.ID))
		assert.False(t, h.Bookings.Delete(ctx, drop.ID))

		remaining := h.Bookings.GetAll(ctx)
		require.Len(t, remaining, 1)
		assert.Equal(t, keep.ID, remaining[0].ID)
	})

	t.Run("status filter returns exact subset in order", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		statuses := []persistence.BookingStatus{
			persistence.StatusApproved,
			persistence.StatusPending,
			persistence.StatusApproved,
			persistence.StatusRejected,
			persistence.StatusRouted,
			persistence.StatusApproved,
		}
		var want []string
		for _, status := range statuses {
			b := h.Bookings.Create(ctx, testfixtures.NewBookingInput(testfixtures.WithBookingStatus(status)))
			if status == persistence.StatusApproved {
				want = append(want, b.ID)
			}
		}

		var got []string
		for _, b := range h.Bookings.GetByStatus(ctx, persistence.StatusApproved) {
			got = append(got, b.ID)
		}
		assert.Equal(t, want, got)
		assert.Empty(t, h.Bookings.GetByStatus(ctx, persistence.BookingStatus("cancelled")))
	})

	t.Run("requester filter matches contact email", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		h.Bookings.Create(ctx, testfixtures.NewBookingInput())
		other := h.Bookings.Create(ctx, testfixtures.NewBookingInput(testfixtures.WithRequester("Mary", "mary@resident.com")))

		found := h.Bookings.GetByRequester(ctx, "mary@resident.com")
		require.Len(t, found, 1)
		assert.Equal(t, other.ID, found[0].ID)
	})

	t.Run("update merges fields and strictly advances updatedAt", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		created := h.Bookings.Create(ctx, testfixtures.NewBookingInput())

		// The harness clock is frozen, so the store must still move forward.
		status := persistence.StatusApproved
		updated, ok := h.Bookings.Update(ctx, created.ID, persistence.BookingPatch{Status: &status})
		require.True(t, ok)

		assert.Equal(t, persistence.StatusApproved, updated.Status)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, created.RequesterInfo, updated.RequesterInfo)
		assert.Equal(t, created.EventDetails, updated.EventDetails)
		assert.Equal(t, created.SubmissionMethod, updated.SubmissionMethod)

		h.Clock.Advance(time.Hour)
		again, ok := h.Bookings.Update(ctx, created.ID, persistence.BookingPatch{})
		require.True(t, ok)
		assert.Equal(t, testfixtures.ReferenceTime().Add(time.Hour), again.UpdatedAt)

		fetched, _ := h.Bookings.GetByID(ctx, created.ID)
		assert.Equal(t, again, fetched)
	})

	t.Run("approval steps are appended in order", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		created := h.Bookings.Create(ctx, testfixtures.NewBookingInput())

		_, ok := h.Bookings.AppendApprovalStep(ctx, created.ID, persistence.ApprovalStep{HandledBy: "Help Desk Staff", Role: persistence.RoleHelpdesk, Approved: true})
		require.True(t, ok)
		updated, ok := h.Bookings.AppendApprovalStep(ctx, created.ID, persistence.ApprovalStep{HandledBy: "Soft Service Manager", Role: persistence.RoleManager, Approved: false, Remarks: "double booked"})
		require.True(t, ok)

		require.Len(t, updated.ApprovalHistory, 2)
		assert.Equal(t, persistence.RoleHelpdesk, updated.ApprovalHistory[0].Role)
		assert.Equal(t, "double booked", updated.ApprovalHistory[1].Remarks)
		assert.NotEmpty(t, updated.ApprovalHistory[0].ID)
		assert.NotEqual(t, updated.ApprovalHistory[0].ID, updated.ApprovalHistory[1].ID)
		assert.False(t, updated.ApprovalHistory[1].Timestamp.IsZero())

		_, ok = h.Bookings.AppendApprovalStep(ctx, "missing", persistence.ApprovalStep{})
		assert.False(t, ok)
	})
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()

	t.Run("lookups by email and role", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		extra := h.Users.Create(ctx, testfixtures.NewUserInput(testfixtures.WithUserRole(persistence.RoleManager), testfixtures.WithUserActive(false)))

		admin, ok := h.Users.GetByEmail(ctx, "admin@nrc9.com")
		require.True(t, ok)
		assert.Equal(t, "1", admin.ID)

		_, ok = h.Users.GetByEmail(ctx, "ghost@x.com")
		assert.False(t, ok)

		managers := h.Users.GetByRole(ctx, persistence.RoleManager)
		require.Len(t, managers, 2)
		assert.Equal(t, "3", managers[0].ID)
		assert.Equal(t, extra.ID, managers[1].ID)
	})

	t.Run("update merges without touching createdAt", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		inactive := false

		updated, ok := h.Users.Update(ctx, "4", persistence.UserPatch{IsActive: &inactive})
		require.True(t, ok)

		assert.False(t, updated.IsActive)
		assert.Equal(t, "John Resident", updated.Name)
		assert.Equal(t, persistence.RoleResident, updated.Role)
		assert.Equal(t, testfixtures.ReferenceTime(), updated.CreatedAt)
	})

	t.Run("delete twice", func(t *testing.T) {
		h := testfixtures.NewHarness(t)

		assert.True(t, h.Users.Delete(ctx, "4"))
		assert.False(t, h.Users.Delete(ctx, "4"))
		assert.Len(t, h.Users.GetAll(ctx), 3)
	})
}

func TestNotificationStore(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t)

	first := h.Notifications.Create(ctx, persistence.NotificationInput{UserID: "4", Title: "One", Message: "m", Type: persistence.NotificationInfo})
	h.Notifications.Create(ctx, persistence.NotificationInput{UserID: "2", Title: "Two", Message: "m", Type: persistence.NotificationWarning})
	third := h.Notifications.Create(ctx, persistence.NotificationInput{UserID: "4", Title: "Three", Message: "m", Type: persistence.NotificationSuccess, RelatedRequestID: "b-1"})

	mine := h.Notifications.GetByUserID(ctx, "4")
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, "b-1", mine[1].RelatedRequestID)

	assert.True(t, h.Notifications.MarkAsRead(ctx, third.ID))
	assert.False(t, h.Notifications.MarkAsRead(ctx, "missing"))

	fetched, ok := h.Notifications.GetByID(ctx, third.ID)
	require.True(t, ok)
	assert.True(t, fetched.Read)
	assert.Equal(t, "Three", fetched.Title)

	assert.True(t, h.Notifications.Delete(ctx, first.ID))
	assert.Len(t, h.Notifications.GetAll(ctx), 2)
}

func TestFacilityStore(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t)

	created := h.Facilities.Create(ctx, testfixtures.NewFacilityInput(testfixtures.WithFacilityName("Rooftop Garden")))
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	amenities := []string{"bbq pit"}
	capacity := 25
	updated, ok := h.Facilities.Update(ctx, created.ID, persistence.FacilityPatch{Amenities: &amenities, Capacity: &capacity})
	require.True(t, ok)

	assert.Equal(t, "Rooftop Garden", updated.Name)
	assert.Equal(t, 25, updated.Capacity)
	assert.Equal(t, []string{"bbq pit"}, updated.Amenities)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	amenities[0] = "changed"
	fetched, _ := h.Facilities.GetByID(ctx, created.ID)
	assert.Equal(t, []string{"bbq pit"}, fetched.Amenities)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t)

	_, ok := h.Sessions.Get(ctx, persistence.DefaultSessionKey)
	assert.False(t, ok)

	h.Sessions.Set(ctx, persistence.DefaultSessionKey, testfixtures.SeedAdmin)
	h.Sessions.Set(ctx, persistence.TokenSessionKey("abc"), testfixtures.SeedResident)

	got, ok := h.Sessions.Get(ctx, persistence.DefaultSessionKey)
	require.True(t, ok)
	assert.Equal(t, testfixtures.SeedAdmin, got)

	h.Sessions.Set(ctx, persistence.DefaultSessionKey, testfixtures.SeedManager)
	got, _ = h.Sessions.Get(ctx, persistence.DefaultSessionKey)
	assert.Equal(t, testfixtures.SeedManager, got)

	h.Sessions.Clear(ctx, persistence.DefaultSessionKey)
	_, ok = h.Sessions.Get(ctx, persistence.DefaultSessionKey)
	assert.False(t, ok)

	other, ok := h.Sessions.Get(ctx, persistence.TokenSessionKey("abc"))
	require.True(t, ok)
	assert.Equal(t, testfixtures.SeedResident, other)

	t.Run("corrupt session reads as absent", func(t *testing.T) {
		require.NoError(t, h.Store.Set(ctx, persistence.CurrentUserKey, []byte("{")))
		_, ok := h.Sessions.Get(ctx, persistence.DefaultSessionKey)
		assert.False(t, ok)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("writes default accounts and empty collections", func(t *testing.T) {
		h := testfixtures.NewHarness(t)

		users := h.Users.GetAll(ctx)
		require.Len(t, users, 4)
		for i, want := range []persistence.AuthUser{testfixtures.SeedAdmin, testfixtures.SeedHelpdesk, testfixtures.SeedManager, testfixtures.SeedResident} {
			assert.Equal(t, want, persistence.AuthUserFrom(users[i]))
			assert.True(t, users[i].IsActive)
		}
		assert.Equal(t, "Recreation Department", users[2].Department)
		assert.Empty(t, users[3].Department)

		for _, key := range []string{persistence.BookingsKey, persistence.NotificationsKey, persistence.FacilitiesKey} {
			raw, err := h.Store.Get(ctx, key)
			require.NoError(t, err, key)
			assert.JSONEq(t, "[]", string(raw), key)
		}
	})

	t.Run("existing collections are left alone", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		h.Users.Delete(ctx, "1")
		h.Bookings.Create(ctx, testfixtures.NewBookingInput())

		persistence.Seed(ctx, h.Adapter)

		assert.Len(t, h.Users.GetAll(ctx), 3)
		assert.Len(t, h.Bookings.GetAll(ctx), 1)
	})

	t.Run("corrupt users are not overwritten", func(t *testing.T) {
		h := testfixtures.NewHarness(t, testfixtures.WithoutSeed())
		require.NoError(t, h.Store.Set(ctx, persistence.UsersKey, []byte("not json")))

		persistence.Seed(ctx, h.Adapter)

		assert.Empty(t, h.Users.GetAll(ctx))
		raw, err := h.Store.Get(ctx, persistence.UsersKey)
		require.NoError(t, err)
		assert.Equal(t, "not json", string(raw))
	})
}

func TestRepositoriesWithoutMedium(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewHarness(t, testfixtures.WithStore(nil))

	created := h.Bookings.Create(ctx, testfixtures.NewBookingInput())
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, h.Bookings.GetAll(ctx))
	assert.Empty(t, h.Users.GetAll(ctx))
	assert.False(t, h.Bookings.Delete(ctx, created.ID))

	h.Sessions.Set(ctx, persistence.DefaultSessionKey, testfixtures.SeedAdmin)
	_, ok := h.Sessions.Get(ctx, persistence.DefaultSessionKey)
	assert.False(t, ok)
	assert.Empty(t, h.Logs.AllEntries())
}

func TestRepositoriesOnSQLite(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)

	created := h.Bookings.Create(ctx, testfixtures.NewBookingInput())
	fetched, ok := h.Bookings.GetByID(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, created, fetched)
	assert.Len(t, h.Users.GetAll(ctx), 4)
}

// unreliableStore fails the first read of failKey, then behaves like its
// underlying memory store.
type unreliableStore struct {
	*kvstore.MemoryStore
	failKey string

	mu     sync.Mutex
	failed bool
}

func (s *unreliableStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := key == s.failKey && !s.failed
	if fail {
		s.failed = true
	}
	s.mu.Unlock()
	if fail {
		return nil, errors.New("i/o timeout")
	}
	return s.MemoryStore.Get(ctx, key)
}

func TestSeed_ReadFailureKeepsExistingUsers(t *testing.T) {
	ctx := context.Background()
	memory := kvstore.NewMemoryStore()
	existing := `[{"id":"u-99","name":"Kept Resident","email":"kept@resident.com","role":"resident","isActive":true,"createdAt":"2024-01-01T00:00:00Z"}]`
	require.NoError(t, memory.Set(ctx, persistence.UsersKey, []byte(existing)))
	store := &unreliableStore{MemoryStore: memory, failKey: persistence.UsersKey}
	h := testfixtures.NewHarness(t, testfixtures.WithStore(store), testfixtures.WithoutSeed())

	persistence.Seed(ctx, h.Adapter)

	raw, err := memory.Get(ctx, persistence.UsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, existing, string(raw))

	users := h.Users.GetAll(ctx)
	require.Len(t, users, 1)
	assert.Equal(t, "u-99", users[0].ID)

	// Absent keys are still seeded.
	raw, err = memory.Get(ctx, persistence.BookingsKey)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}
