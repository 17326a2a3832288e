package application

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

// FacilityService manages the catalogue of bookable venues. Anyone signed in
// may read it; only administrators change it.
type FacilityService struct {
	facilities persistence.FacilityRepository
	logger     *logrus.Entry
}

// NewFacilityService constructs a facility service.
func NewFacilityService(facilities persistence.FacilityRepository) *FacilityService {
	return NewFacilityServiceWithLogger(facilities, nil)
}

// NewFacilityServiceWithLogger constructs a facility service with a specified logger.
func NewFacilityServiceWithLogger(facilities persistence.FacilityRepository, logger *logrus.Entry) *FacilityService {
	return &FacilityService{facilities: facilities, logger: logger}
}

func (s *FacilityService) loggerWith(ctx context.Context, operation string, fields logrus.Fields) *logrus.Entry {
	return serviceLogger(ctx, s.logger, "FacilityService", operation, fields)
}

// ListFacilities returns venues sorted by name. Inactive venues are included
// only when includeInactive is set.
func (s *FacilityService) ListFacilities(ctx context.Context, includeInactive bool) []persistence.Facility {
	out := []persistence.Facility{}
	for _, f := range s.facilities.GetAll(ctx) {
		if f.IsActive || includeInactive {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b persistence.Facility) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// CreateFacility validates input and stores a new venue.
func (s *FacilityService) CreateFacility(ctx context.Context, actor persistence.AuthUser, input persistence.FacilityInput) (facility persistence.Facility, err error) {
	if s == nil {
		err = fmt.Errorf("FacilityService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateFacility", logrus.Fields{"actor_id": actor.ID})
	defer func() {
		logOutcome(logger.WithField("facility_id", facility.ID), err, "failed to create facility", "facility created")
	}()

	if !HasRole(&actor, persistence.RoleAdmin) {
		err = ErrUnauthorized
		return
	}

	input = normalizeFacilityInput(input)
	if vErr := validateStruct(input); vErr.HasErrors() {
		err = vErr
		return
	}

	facility = s.facilities.Create(ctx, input)
	return
}

// UpdateFacility merges patch over an existing venue.
func (s *FacilityService) UpdateFacility(ctx context.Context, actor persistence.AuthUser, id string, patch persistence.FacilityPatch) (facility persistence.Facility, err error) {
	if s == nil {
		err = fmt.Errorf("FacilityService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateFacility", logrus.Fields{
		"actor_id":    actor.ID,
		"facility_id": id,
	})
	defer func() {
		logOutcome(logger, err, "failed to update facility", "facility updated")
	}()

	if !HasRole(&actor, persistence.RoleAdmin) {
		err = ErrUnauthorized
		return
	}

	existing, ok := s.facilities.GetByID(ctx, id)
	if !ok {
		err = ErrNotFound
		return
	}

	merged := persistence.FacilityInput{
		Name:        existing.Name,
		Description: existing.Description,
		Location:    existing.Location,
		Capacity:    existing.Capacity,
		Amenities:   existing.Amenities,
		IsActive:    existing.IsActive,
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Location != nil {
		merged.Location = *patch.Location
	}
	if patch.Capacity != nil {
		merged.Capacity = *patch.Capacity
	}
	if patch.Amenities != nil {
		merged.Amenities = *patch.Amenities
	}
	if patch.IsActive != nil {
		merged.IsActive = *patch.IsActive
	}
	merged = normalizeFacilityInput(merged)
	if vErr := validateStruct(merged); vErr.HasErrors() {
		err = vErr
		return
	}

	facility, ok = s.facilities.Update(ctx, id, persistence.FacilityPatch{
		Name:        &merged.Name,
		Description: &merged.Description,
		Location:    &merged.Location,
		Capacity:    &merged.Capacity,
		Amenities:   &merged.Amenities,
		IsActive:    &merged.IsActive,
	})
	if !ok {
		err = ErrNotFound
	}
	return
}

// DeleteFacility removes a venue.
func (s *FacilityService) DeleteFacility(ctx context.Context, actor persistence.AuthUser, id string) (err error) {
	if s == nil {
		return fmt.Errorf("FacilityService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteFacility", logrus.Fields{
		"actor_id":    actor.ID,
		"facility_id": id,
	})
	defer func() {
		logOutcome(logger, err, "failed to delete facility", "facility deleted")
	}()

	if !HasRole(&actor, persistence.RoleAdmin) {
		return ErrUnauthorized
	}
	if !s.facilities.Delete(ctx, id) {
		return ErrNotFound
	}
	return nil
}

func normalizeFacilityInput(input persistence.FacilityInput) persistence.FacilityInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)

	amenities := make([]string, 0, len(input.Amenities))
	for _, a := range input.Amenities {
		if a = strings.TrimSpace(a); a != "" && !slices.Contains(amenities, a) {
			amenities = append(amenities, a)
		}
	}
	input.Amenities = amenities
	return input
}
