package persistence

import (
	"context"

	"github.com/example/facility-booking/internal/kvstore"
)

// UserStore is the key-value backed UserRepository.
type UserStore struct {
	items collection[User]
	opts  options
}

var _ UserRepository = (*UserStore)(nil)

// NewUserStore returns a repository persisting users under UsersKey.
func NewUserStore(store *kvstore.Adapter, opts ...Option) *UserStore {
	return &UserStore{
		items: collection[User]{
			store: store,
			key:   UsersKey,
			idOf:  func(u User) string { return u.ID },
		},
		opts: buildOptions(opts),
	}
}

func (r *UserStore) GetAll(ctx context.Context) []User {
	return r.items.all(ctx)
}

func (r *UserStore) GetByID(ctx context.Context, id string) (User, bool) {
	return r.items.find(ctx, id)
}

// GetByEmail returns the first user whose email matches exactly.
func (r *UserStore) GetByEmail(ctx context.Context, email string) (User, bool) {
	for _, user := range r.items.all(ctx) {
		if user.Email == email {
			return user, true
		}
	}
	return User{}, false
}

// GetByRole returns users holding role, active or not.
func (r *UserStore) GetByRole(ctx context.Context, role Role) []User {
	return r.items.filter(ctx, func(u User) bool { return u.Role == role })
}

func (r *UserStore) Create(ctx context.Context, input UserInput) User {
	user := User{
		ID:         r.opts.newID(),
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Department: input.Department,
		IsActive:   input.IsActive,
		CreatedAt:  r.opts.now(),
	}
	r.items.add(ctx, user)
	return user
}

// Update merges patch over the user with id. Users carry no updatedAt.
func (r *UserStore) Update(ctx context.Context, id string, patch UserPatch) (User, bool) {
	return r.items.modify(ctx, id, func(u User) User {
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		if patch.Role != nil {
			u.Role = *patch.Role
		}
		if patch.Department != nil {
			u.Department = *patch.Department
		}
		if patch.IsActive != nil {
			u.IsActive = *patch.IsActive
		}
		return u
	})
}

func (r *UserStore) Delete(ctx context.Context, id string) bool {
	return r.items.remove(ctx, id)
}
