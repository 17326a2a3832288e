package persistence

import (
	"context"
	"slices"

	"github.com/example/facility-booking/internal/kvstore"
)

// FacilityStore is the key-value backed FacilityRepository.
type FacilityStore struct {
	items collection[Facility]
	opts  options
}

var _ FacilityRepository = (*FacilityStore)(nil)

// NewFacilityStore returns a repository persisting facilities under
// FacilitiesKey.
func NewFacilityStore(store *kvstore.Adapter, opts ...Option) *FacilityStore {
	return &FacilityStore{
		items: collection[Facility]{
			store: store,
			key:   FacilitiesKey,
			idOf:  func(f Facility) string { return f.ID },
		},
		opts: buildOptions(opts),
	}
}

func (r *FacilityStore) GetAll(ctx context.Context) []Facility {
	return r.items.all(ctx)
}

func (r *FacilityStore) GetByID(ctx context.Context, id string) (Facility, bool) {
	return r.items.find(ctx, id)
}

func (r *FacilityStore) Create(ctx context.Context, input FacilityInput) Facility {
	now := r.opts.now()
	facility := Facility{
		ID:          r.opts.newID(),
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Capacity:    input.Capacity,
		Amenities:   slices.Clone(input.Amenities),
		IsActive:    input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if facility.Amenities == nil {
		facility.Amenities = []string{}
	}
	r.items.add(ctx, facility)
	return facility
}

func (r *FacilityStore) Update(ctx context.Context, id string, patch FacilityPatch) (Facility, bool) {
	return r.items.modify(ctx, id, func(f Facility) Facility {
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Description != nil {
			f.Description = *patch.Description
		}
		if patch.Location != nil {
			f.Location = *patch.Location
		}
		if patch.Capacity != nil {
			f.Capacity = *patch.Capacity
		}
		if patch.Amenities != nil {
			f.Amenities = slices.Clone(*patch.Amenities)
		}
		if patch.IsActive != nil {
			f.IsActive = *patch.IsActive
		}
		f.UpdatedAt = r.opts.touch(f.UpdatedAt)
		return f
	})
}

func (r *FacilityStore) Delete(ctx context.Context, id string) bool {
	return r.items.remove(ctx, id)
}
