package testfixtures

import (
	"context"
	"sync"
	"testing"

	"github.com/example/facility-booking/internal/application"
)

// Services wires every application service over a Harness.
type Services struct {
	*Harness

	Alerter       *RecordingAlerter
	Notifications *application.NotificationDispatcher
	Auth          *application.AuthService
	Bookings      *application.BookingService
	Users         *application.UserService
	Facilities    *application.FacilityService
}

// NewServices returns services over a seeded in-memory harness. Alerts are
// recorded by Alerter, which starts out granted.
func NewServices(t testing.TB, opts ...HarnessOption) *Services {
	t.Helper()
	return NewServicesFor(NewHarness(t, opts...))
}

// NewServicesFor wires services over an existing harness.
func NewServicesFor(h *Harness) *Services {
	alerter := NewRecordingAlerter(application.PermissionGranted)
	dispatcher := application.NewNotificationDispatcherWithLogger(h.Notifications, h.Users, alerter, h.Logger)
	tokens := NewSequence("token")
	return &Services{
		Harness:       h,
		Alerter:       alerter,
		Notifications: dispatcher,
		Auth:          application.NewAuthServiceWithLogger(h.Users, h.Sessions, tokens.Func(), h.Logger),
		Bookings:      application.NewBookingServiceWithLogger(h.Bookings, dispatcher, h.Clock.NowFunc(), h.Logger),
		Users:         application.NewUserServiceWithLogger(h.Users, dispatcher, h.Logger),
		Facilities:    application.NewFacilityServiceWithLogger(h.Facilities, h.Logger),
	}
}

var _ application.Alerter = (*RecordingAlerter)(nil)

// RecordingAlerter keeps every alert it is handed.
type RecordingAlerter struct {
	mu         sync.Mutex
	permission application.Permission
	// Answer is what RequestPermission resolves a default permission to.
	Answer application.Permission
	// Err is returned from Alert after recording.
	Err      error
	alerts   []application.Alert
	requests int
}

// NewRecordingAlerter returns an alerter reporting permission.
func NewRecordingAlerter(permission application.Permission) *RecordingAlerter {
	return &RecordingAlerter{permission: permission, Answer: permission}
}

func (a *RecordingAlerter) Permission(context.Context) application.Permission {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.permission
}

func (a *RecordingAlerter) RequestPermission(context.Context) (application.Permission, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests++
	if a.permission == application.PermissionDefault {
		a.permission = a.Answer
	}
	return a.permission, nil
}

func (a *RecordingAlerter) Alert(_ context.Context, alert application.Alert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
	return a.Err
}

// SetPermission changes the reported permission.
func (a *RecordingAlerter) SetPermission(p application.Permission) {
	a.mu.Lock()
	a.permission = p
	a.mu.Unlock()
}

// Alerts returns a copy of the recorded alerts.
func (a *RecordingAlerter) Alerts() []application.Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]application.Alert(nil), a.alerts...)
}

// PermissionRequests reports how often RequestPermission was called.
func (a *RecordingAlerter) PermissionRequests() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests
}
