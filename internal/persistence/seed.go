package persistence

import (
	"context"
	"strconv"

	"github.com/example/facility-booking/internal/kvstore"
)

// DefaultUsers returns the accounts written on first start.
func DefaultUsers() []UserInput {
	return []UserInput{
		{Name: "Admin User", Email: "admin@nrc9.com", Role: RoleAdmin, Department: "Administration", IsActive: true},
		{Name: "Help Desk Staff", Email: "helpdesk@nrc9.com", Role: RoleHelpdesk, Department: "Reception", IsActive: true},
		{Name: "Soft Service Manager", Email: "manager@nrc9.com", Role: RoleManager, Department: "Recreation Department", IsActive: true},
		{Name: "John Resident", Email: "john@resident.com", Role: RoleResident, IsActive: true},
	}
}

// Seed fills absent collections. The user collection receives the default
// accounts with ids "1" through "4"; the others start empty. Keys that
// already hold a value, even an undecodable one, are left alone, as are keys
// whose presence could not be read.
func Seed(ctx context.Context, store *kvstore.Adapter, opts ...Option) {
	if !store.Available() {
		return
	}
	o := buildOptions(opts)

	absent := func(key string) bool {
		exists, err := store.Exists(ctx, key)
		return err == nil && !exists
	}

	if absent(UsersKey) {
		now := o.now()
		defaults := DefaultUsers()
		users := make([]User, 0, len(defaults))
		for i, input := range defaults {
			users = append(users, User{
				ID:         strconv.Itoa(i + 1),
				Name:       input.Name,
				Email:      input.Email,
				Role:       input.Role,
				Department: input.Department,
				IsActive:   input.IsActive,
				CreatedAt:  now,
			})
		}
		kvstore.WriteList(ctx, store, UsersKey, users)
	}

	for _, key := range []string{BookingsKey, NotificationsKey, FacilitiesKey} {
		if absent(key) {
			kvstore.WriteList(ctx, store, key, []struct{}{})
		}
	}
}
