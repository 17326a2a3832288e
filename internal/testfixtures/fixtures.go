package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/facility-booking/internal/persistence"
)

var (
	bookingCounter  uint64
	userCounter     uint64
	facilityCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Seeded accounts as written by persistence.Seed.
var (
	SeedAdmin    = persistence.AuthUser{ID: "1", Name: "Admin User", Email: "admin@nrc9.com", Role: persistence.RoleAdmin}
	SeedHelpdesk = persistence.AuthUser{ID: "2", Name: "Help Desk Staff", Email: "helpdesk@nrc9.com", Role: persistence.RoleHelpdesk}
	SeedManager  = persistence.AuthUser{ID: "3", Name: "Soft Service Manager", Email: "manager@nrc9.com", Role: persistence.RoleManager}
	SeedResident = persistence.AuthUser{ID: "4", Name: "John Resident", Email: "john@resident.com", Role: persistence.RoleResident}
)

// ---------------------------- Booking fixtures ----------------------------

// BookingOption configures a generated booking input.
type BookingOption func(*persistence.BookingInput)

// NewBookingInput returns a complete, valid booking submission for the seeded
// resident with optional overrides.
func NewBookingInput(opts ...BookingOption) persistence.BookingInput {
	idx := atomic.AddUint64(&bookingCounter, 1)
	eventDay := referenceTime.AddDate(0, 0, 7+int(idx%20))
	input := persistence.BookingInput{
		RequesterInfo: persistence.RequesterInfo{
			Name:                 SeedResident.Name,
			Company:              "NRC9 Residents",
			Designation:          "Resident",
			Mobile:               "+60 12-345 6789",
			Email:                SeedResident.Email,
			ResidenceOfNRC9:      true,
			UnitNo:               fmt.Sprintf("A-%02d-%02d", idx%30+1, idx%8+1),
			UnitLocation:         "Tower A",
			RequestInitiatedDate: referenceTime.Format(time.DateOnly),
		},
		EventDetails: persistence.EventDetails{
			VenueRequested:         "Multipurpose Hall",
			Event:                  fmt.Sprintf("Gathering %03d", idx),
			EventScheduleStartDate: eventDay.Format(time.DateOnly),
			EventEndDate:           eventDay.Format(time.DateOnly),
			EventStartTime:         "18:00",
			EventEndTime:           "22:00",
			NumberOfGuests:         40,
			AVSystem:               persistence.ServiceOption{Required: true, Details: "Two microphones"},
			FBServices:             persistence.ServiceOption{Required: false},
			Chargeable:             persistence.ChargeOption{Required: false},
			InvoiceTo:              SeedResident.Name,
		},
		Status:           persistence.StatusPending,
		SubmissionMethod: persistence.SubmissionWalkIn,
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// WithRequester overrides the requester name and email.
func WithRequester(name, email string) BookingOption {
	return func(b *persistence.BookingInput) {
		b.RequesterInfo.Name = name
		b.RequesterInfo.Email = email
	}
}

// WithVenue overrides the requested venue.
func WithVenue(venue string) BookingOption {
	return func(b *persistence.BookingInput) {
		b.EventDetails.VenueRequested = venue
	}
}

// WithEventDate sets both the start and end date of the event.
func WithEventDate(date string) BookingOption {
	return func(b *persistence.BookingInput) {
		b.EventDetails.EventScheduleStartDate = date
		b.EventDetails.EventEndDate = date
	}
}

// WithBookingStatus overrides the initial status.
func WithBookingStatus(status persistence.BookingStatus) BookingOption {
	return func(b *persistence.BookingInput) {
		b.Status = status
	}
}

// WithSubmissionMethod overrides how the booking was submitted.
func WithSubmissionMethod(method persistence.SubmissionMethod) BookingOption {
	return func(b *persistence.BookingInput) {
		b.SubmissionMethod = method
	}
}

// WithCharge marks the booking chargeable for amount.
func WithCharge(amount float64) BookingOption {
	return func(b *persistence.BookingInput) {
		b.EventDetails.Chargeable = persistence.ChargeOption{Required: true, Amount: &amount}
	}
}

// ------------------------------ User fixtures -----------------------------

// UserOption configures a generated user input.
type UserOption func(*persistence.UserInput)

// NewUserInput returns an active resident account with a unique email.
func NewUserInput(opts ...UserOption) persistence.UserInput {
	idx := atomic.AddUint64(&userCounter, 1)
	input := persistence.UserInput{
		Name:     fmt.Sprintf("User %03d", idx),
		Email:    fmt.Sprintf("user-%03d@example.com", idx),
		Role:     persistence.RoleResident,
		IsActive: true,
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// WithUserName overrides the display name.
func WithUserName(name string) UserOption {
	return func(u *persistence.UserInput) {
		u.Name = name
	}
}

// WithUserEmail overrides the email address.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.UserInput) {
		u.Email = email
	}
}

// WithUserRole overrides the role.
func WithUserRole(role persistence.Role) UserOption {
	return func(u *persistence.UserInput) {
		u.Role = role
	}
}

// WithUserDepartment overrides the department.
func WithUserDepartment(department string) UserOption {
	return func(u *persistence.UserInput) {
		u.Department = department
	}
}

// WithUserActive sets the active flag.
func WithUserActive(active bool) UserOption {
	return func(u *persistence.UserInput) {
		u.IsActive = active
	}
}

// ---------------------------- Facility fixtures ---------------------------

// FacilityOption configures a generated facility input.
type FacilityOption func(*persistence.FacilityInput)

// NewFacilityInput returns an active venue with a unique name.
func NewFacilityInput(opts ...FacilityOption) persistence.FacilityInput {
	idx := atomic.AddUint64(&facilityCounter, 1)
	input := persistence.FacilityInput{
		Name:        fmt.Sprintf("Function Room %03d", idx),
		Description: "Air-conditioned room with movable seating",
		Location:    fmt.Sprintf("Level %d, Clubhouse", idx%5+1),
		Capacity:    60,
		Amenities:   []string{"projector", "sound system"},
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// WithFacilityName overrides the facility name.
func WithFacilityName(name string) FacilityOption {
	return func(f *persistence.FacilityInput) {
		f.Name = name
	}
}

// WithFacilityCapacity overrides the capacity.
func WithFacilityCapacity(capacity int) FacilityOption {
	return func(f *persistence.FacilityInput) {
		f.Capacity = capacity
	}
}

// WithFacilityActive sets the active flag.
func WithFacilityActive(active bool) FacilityOption {
	return func(f *persistence.FacilityInput) {
		f.IsActive = active
	}
}
