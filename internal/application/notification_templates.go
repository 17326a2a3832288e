package application

import (
	"fmt"

	"github.com/example/facility-booking/internal/persistence"
)

// Template is the rendered content of one notification. Interpolated values
// are inserted verbatim.
type Template struct {
	Title   string
	Message string
	Type    persistence.NotificationType
}

// NewRequestTemplate announces a fresh booking submission.
func NewRequestTemplate(requesterName, venue string) Template {
	return Template{
		Title:   "New Booking Request",
		Message: fmt.Sprintf("%s has submitted a new booking request for %s", requesterName, venue),
		Type:    persistence.NotificationInfo,
	}
}

// RequestRoutedTemplate tells the requester their booking awaits a manager.
func RequestRoutedTemplate(venue string) Template {
	return Template{
		Title:   "Request Routed for Approval",
		Message: fmt.Sprintf("Your booking request for %s has been routed to the Soft Service Manager for approval", venue),
		Type:    persistence.NotificationInfo,
	}
}

func RequestApprovedTemplate(venue, eventDate string) Template {
	return Template{
		Title:   "Booking Request Approved",
		Message: fmt.Sprintf("Your booking request for %s on %s has been approved", venue, eventDate),
		Type:    persistence.NotificationSuccess,
	}
}

// RequestRejectedTemplate appends reason to the message when one is given.
func RequestRejectedTemplate(venue, reason string) Template {
	message := fmt.Sprintf("Your booking request for %s has been rejected", venue)
	if reason != "" {
		message += ": " + reason
	}
	return Template{
		Title:   "Booking Request Rejected",
		Message: message,
		Type:    persistence.NotificationError,
	}
}

func ApprovalNeededTemplate(requesterName, venue string) Template {
	return Template{
		Title:   "Approval Required",
		Message: fmt.Sprintf("Booking request from %s for %s requires your approval", requesterName, venue),
		Type:    persistence.NotificationWarning,
	}
}

func UserCreatedTemplate(userName string, role persistence.Role) Template {
	return Template{
		Title:   "New User Account Created",
		Message: fmt.Sprintf("A new %s account has been created for %s", role, userName),
		Type:    persistence.NotificationInfo,
	}
}

func UserDeactivatedTemplate(userName string) Template {
	return Template{
		Title:   "User Account Deactivated",
		Message: fmt.Sprintf("User account for %s has been deactivated", userName),
		Type:    persistence.NotificationWarning,
	}
}
