package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

// BookingNotifier receives the workflow events raised by BookingService.
type BookingNotifier interface {
	NotifyNewRequest(ctx context.Context, booking persistence.BookingRequest)
	NotifyRequestRouted(ctx context.Context, booking persistence.BookingRequest)
	NotifyRequestApproved(ctx context.Context, booking persistence.BookingRequest)
	NotifyRequestRejected(ctx context.Context, booking persistence.BookingRequest, reason string)
}

// DashboardStats summarises the booking collection.
type DashboardStats struct {
	TotalRequests    int `json:"totalRequests"`
	PendingRequests  int `json:"pendingRequests"`
	RoutedRequests   int `json:"routedRequests"`
	ApprovedRequests int `json:"approvedRequests"`
	RejectedRequests int `json:"rejectedRequests"`
	MonthlyRequests  int `json:"monthlyRequests"`
}

// ReportFilter narrows Report. Empty fields match everything. Dates are
// inclusive bounds on the event start date.
type ReportFilter struct {
	StartDate string                    `form:"startDate" json:"startDate"`
	EndDate   string                    `form:"endDate" json:"endDate"`
	Status    persistence.BookingStatus `form:"status" json:"status"`
	Venue     string                    `form:"venue" json:"venue"`
	Requester string                    `form:"requester" json:"requester"`
}

var (
	staffRoles    = []persistence.Role{persistence.RoleHelpdesk, persistence.RoleManager, persistence.RoleAdmin}
	routingRoles  = []persistence.Role{persistence.RoleHelpdesk, persistence.RoleAdmin}
	approvalRoles = []persistence.Role{persistence.RoleManager, persistence.RoleAdmin}
)

// BookingService drives booking requests through pending, routed and a final
// approved or rejected status.
type BookingService struct {
	bookings persistence.BookingRepository
	notifier BookingNotifier
	now      func() time.Time
	logger   *logrus.Entry
}

// NewBookingService constructs a booking service. notifier may be nil.
func NewBookingService(bookings persistence.BookingRepository, notifier BookingNotifier, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, notifier, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(bookings persistence.BookingRepository, notifier BookingNotifier, now func() time.Time, logger *logrus.Entry) *BookingService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BookingService{bookings: bookings, notifier: notifier, now: now, logger: logger}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, fields logrus.Fields) *logrus.Entry {
	return serviceLogger(ctx, s.logger, "BookingService", operation, fields)
}

// Submit validates input and stores it as a pending request. Help desk staff
// are notified.
func (s *BookingService) Submit(ctx context.Context, input persistence.BookingInput) (booking persistence.BookingRequest, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	input = normalizeBookingInput(input)
	logger := s.loggerWith(ctx, "Submit", logrus.Fields{
		"requester_email": input.RequesterInfo.Email,
		"venue":           input.EventDetails.VenueRequested,
	})
	defer func() {
		logOutcome(logger.WithField("booking_id", booking.ID), err, "failed to submit booking", "booking submitted")
	}()

	if vErr := validateBookingInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	booking = s.bookings.Create(ctx, input)
	if s.notifier != nil {
		s.notifier.NotifyNewRequest(ctx, booking)
	}
	return
}

// List returns every booking to staff and only their own requests to residents.
// Requester emails are matched regardless of case, as in Get.
func (s *BookingService) List(ctx context.Context, actor persistence.AuthUser) []persistence.BookingRequest {
	all := s.bookings.GetAll(ctx)
	if HasRole(&actor, staffRoles...) {
		return all
	}
	own := []persistence.BookingRequest{}
	for _, b := range all {
		if ownsBooking(actor, b) {
			own = append(own, b)
		}
	}
	return own
}

// Get returns one booking. Residents may only read their own requests.
func (s *BookingService) Get(ctx context.Context, actor persistence.AuthUser, id string) (persistence.BookingRequest, error) {
	booking, ok := s.bookings.GetByID(ctx, id)
	if !ok {
		return persistence.BookingRequest{}, ErrNotFound
	}
	if !HasRole(&actor, staffRoles...) && !ownsBooking(actor, booking) {
		return persistence.BookingRequest{}, ErrUnauthorized
	}
	return booking, nil
}

// Route forwards a pending request to the managers.
func (s *BookingService) Route(ctx context.Context, actor persistence.AuthUser, id, remarks string) (persistence.BookingRequest, error) {
	return s.transition(ctx, transition{
		operation: "Route",
		actor:     actor,
		bookingID: id,
		roles:     routingRoles,
		from:      persistence.StatusPending,
		to:        persistence.StatusRouted,
		approved:  true,
		remarks:   remarks,
		notify: func(booking persistence.BookingRequest) {
			s.notifier.NotifyRequestRouted(ctx, booking)
		},
	})
}

// Approve accepts a routed request.
func (s *BookingService) Approve(ctx context.Context, actor persistence.AuthUser, id, remarks string) (persistence.BookingRequest, error) {
	return s.transition(ctx, transition{
		operation: "Approve",
		actor:     actor,
		bookingID: id,
		roles:     approvalRoles,
		from:      persistence.StatusRouted,
		to:        persistence.StatusApproved,
		approved:  true,
		remarks:   remarks,
		notify: func(booking persistence.BookingRequest) {
			s.notifier.NotifyRequestApproved(ctx, booking)
		},
	})
}

// Reject declines a routed request. reason is recorded on the approval step
// and passed to the requester.
func (s *BookingService) Reject(ctx context.Context, actor persistence.AuthUser, id, reason string) (persistence.BookingRequest, error) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, transition{
		operation: "Reject",
		actor:     actor,
		bookingID: id,
		roles:     approvalRoles,
		from:      persistence.StatusRouted,
		to:        persistence.StatusRejected,
		approved:  false,
		remarks:   reason,
		notify: func(booking persistence.BookingRequest) {
			s.notifier.NotifyRequestRejected(ctx, booking, reason)
		},
	})
}

type transition struct {
	operation string
	actor     persistence.AuthUser
	bookingID string
	roles     []persistence.Role
	from      persistence.BookingStatus
	to        persistence.BookingStatus
	approved  bool
	remarks   string
	notify    func(persistence.BookingRequest)
}

func (s *BookingService) transition(ctx context.Context, t transition) (booking persistence.BookingRequest, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, t.operation, logrus.Fields{
		"actor_id":   t.actor.ID,
		"booking_id": t.bookingID,
	})
	defer func() {
		logOutcome(logger.WithField("status", booking.Status), err,
			"booking transition failed", "booking transitioned")
	}()

	if !HasRole(&t.actor, t.roles...) {
		err = ErrUnauthorized
		return
	}

	current, ok := s.bookings.GetByID(ctx, t.bookingID)
	if !ok {
		err = ErrNotFound
		return
	}
	if current.Status != t.from {
		err = fmt.Errorf("%w: booking is %s, expected %s", ErrInvalidTransition, current.Status, t.from)
		return
	}

	to := t.to
	if _, ok = s.bookings.Update(ctx, t.bookingID, persistence.BookingPatch{Status: &to}); !ok {
		err = ErrNotFound
		return
	}

	booking, ok = s.bookings.AppendApprovalStep(ctx, t.bookingID, persistence.ApprovalStep{
		HandledBy: t.actor.Name,
		Signature: t.actor.Email,
		Role:      t.actor.Role,
		Approved:  t.approved,
		Remarks:   strings.TrimSpace(t.remarks),
		Timestamp: s.now(),
	})
	if !ok {
		err = ErrNotFound
		return
	}

	if s.notifier != nil && t.notify != nil {
		t.notify(booking)
	}
	return
}

// Stats counts bookings by status. Monthly counts requests created in the
// current calendar month.
func (s *BookingService) Stats(ctx context.Context, actor persistence.AuthUser) (DashboardStats, error) {
	if !HasRole(&actor, staffRoles...) {
		return DashboardStats{}, ErrUnauthorized
	}

	now := s.now()
	var stats DashboardStats
	for _, b := range s.bookings.GetAll(ctx) {
		stats.TotalRequests++
		switch b.Status {
		case persistence.StatusPending:
			stats.PendingRequests++
		case persistence.StatusRouted:
			stats.RoutedRequests++
		case persistence.StatusApproved:
			stats.ApprovedRequests++
		case persistence.StatusRejected:
			stats.RejectedRequests++
		}
		created := b.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.MonthlyRequests++
		}
	}
	return stats, nil
}

// Report returns the bookings matching filter in storage order.
func (s *BookingService) Report(ctx context.Context, actor persistence.AuthUser, filter ReportFilter) ([]persistence.BookingRequest, error) {
	if !HasRole(&actor, staffRoles...) {
		return nil, ErrUnauthorized
	}
	if vErr := validateReportFilter(filter); vErr.HasErrors() {
		return nil, vErr
	}

	venue := strings.ToLower(strings.TrimSpace(filter.Venue))
	requester := strings.ToLower(strings.TrimSpace(filter.Requester))

	matched := []persistence.BookingRequest{}
	for _, b := range s.bookings.GetAll(ctx) {
		date := b.EventDetails.EventScheduleStartDate
		if filter.StartDate != "" && date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && date > filter.EndDate {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if venue != "" && !strings.Contains(strings.ToLower(b.EventDetails.VenueRequested), venue) {
			continue
		}
		if requester != "" &&
			!strings.Contains(strings.ToLower(b.RequesterInfo.Name), requester) &&
			!strings.Contains(strings.ToLower(b.RequesterInfo.Email), requester) {
			continue
		}
		matched = append(matched, b)
	}
	return matched, nil
}

func ownsBooking(actor persistence.AuthUser, booking persistence.BookingRequest) bool {
	return actor.Email != "" && strings.EqualFold(booking.RequesterInfo.Email, actor.Email)
}

func normalizeBookingInput(input persistence.BookingInput) persistence.BookingInput {
	input.RequesterInfo.Name = strings.TrimSpace(input.RequesterInfo.Name)
	input.RequesterInfo.Email = strings.TrimSpace(input.RequesterInfo.Email)
	input.EventDetails.VenueRequested = strings.TrimSpace(input.EventDetails.VenueRequested)
	input.EventDetails.Event = strings.TrimSpace(input.EventDetails.Event)
	if input.SubmissionMethod == "" {
		input.SubmissionMethod = persistence.SubmissionWalkIn
	}
	input.Status = persistence.StatusPending
	input.ApprovalHistory = nil
	return input
}

func validateBookingInput(input persistence.BookingInput) *ValidationError {
	vErr := validateStruct(input)
	details := input.EventDetails
	if details.EventEndDate != "" && details.EventScheduleStartDate != "" && details.EventEndDate < details.EventScheduleStartDate {
		vErr.add("eventDetails.eventEndDate", "eventEndDate must not be before eventScheduleStartDate")
	}
	return vErr
}

func validateReportFilter(filter ReportFilter) *ValidationError {
	vErr := &ValidationError{}
	for field, value := range map[string]string{"startDate": filter.StartDate, "endDate": filter.EndDate} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			vErr.add(field, field+" must match 2006-01-02")
		}
	}
	switch filter.Status {
	case "", persistence.StatusPending, persistence.StatusRouted, persistence.StatusApproved, persistence.StatusRejected:
	default:
		vErr.add("status", "status must be one of: pending routed approved rejected")
	}
	return vErr
}
