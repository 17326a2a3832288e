package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/persistence"
)

func TestTemplates(t *testing.T) {
	cases := []struct {
		name string
		got  application.Template
		want application.Template
	}{
		{
			name: "new request",
			got:  application.NewRequestTemplate("John Resident", "Hall A"),
			want: application.Template{Title: "New Booking Request", Message: "John Resident has submitted a new booking request for Hall A", Type: persistence.NotificationInfo},
		},
		{
			name: "routed",
			got:  application.RequestRoutedTemplate("Hall A"),
			want: application.Template{Title: "Request Routed for Approval", Message: "Your booking request for Hall A has been routed to the Soft Service Manager for approval", Type: persistence.NotificationInfo},
		},
		{
			name: "approved",
			got:  application.RequestApprovedTemplate("Hall A", "2024-02-10"),
			want: application.Template{Title: "Booking Request Approved", Message: "Your booking request for Hall A on 2024-02-10 has been approved", Type: persistence.NotificationSuccess},
		},
		{
			name: "rejected with reason",
			got:  application.RequestRejectedTemplate("Hall A", "double booked"),
			want: application.Template{Title: "Booking Request Rejected", Message: "Your booking request for Hall A has been rejected: double booked", Type: persistence.NotificationError},
		},
		{
			name: "rejected without reason",
			got:  application.RequestRejectedTemplate("Hall A", ""),
			want: application.Template{Title: "Booking Request Rejected", Message: "Your booking request for Hall A has been rejected", Type: persistence.NotificationError},
		},
		{
			name: "approval needed",
			got:  application.ApprovalNeededTemplate("John Resident", "Hall A"),
			want: application.Template{Title: "Approval Required", Message: "Booking request from John Resident for Hall A requires your approval", Type: persistence.NotificationWarning},
		},
		{
			name: "user created",
			got:  application.UserCreatedTemplate("Mary", persistence.RoleHelpdesk),
			want: application.Template{Title: "New User Account Created", Message: "A new helpdesk account has been created for Mary", Type: persistence.NotificationInfo},
		},
		{
			name: "user deactivated",
			got:  application.UserDeactivatedTemplate("Mary"),
			want: application.Template{Title: "User Account Deactivated", Message: "User account for Mary has been deactivated", Type: persistence.NotificationWarning},
		},
		{
			name: "markup is not escaped",
			got:  application.RequestRoutedTemplate("<b>Hall</b>"),
			want: application.Template{Title: "Request Routed for Approval", Message: "Your booking request for <b>Hall</b> has been routed to the Soft Service Manager for approval", Type: persistence.NotificationInfo},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}
