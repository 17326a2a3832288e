package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/persistence"
	"github.com/example/facility-booking/internal/testfixtures"
)

func recipients(notifications []persistence.Notification) []string {
	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.UserID)
	}
	return ids
}

func TestNotificationDispatcher_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the notification and alerts the recipient", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		sent := svc.Notifications.Send(ctx, "4", application.RequestRoutedTemplate("Hall A"), "b-1")

		assert.Equal(t, "4", sent.UserID)
		assert.False(t, sent.Read)
		assert.Equal(t, "b-1", sent.RelatedRequestID)

		stored, ok := svc.Harness.Notifications.GetByID(ctx, sent.ID)
		require.True(t, ok)
		assert.Equal(t, sent, stored)

		alerts := svc.Alerter.Alerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "john@resident.com", alerts[0].Recipient.Email)
		assert.Equal(t, sent.Message, alerts[0].Message)
	})

	t.Run("alert failure does not affect the stored record", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		svc.Alerter.Err = errors.New("smtp down")

		sent := svc.Notifications.Send(ctx, "4", application.RequestRoutedTemplate("Hall A"), "")

		_, ok := svc.Harness.Notifications.GetByID(ctx, sent.ID)
		assert.True(t, ok)
		assert.Len(t, svc.Alerter.Alerts(), 1)
		assert.Equal(t, "failed to deliver alert", svc.Logs.LastEntry().Message)
	})

	t.Run("no alert without permission", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		svc.Alerter.SetPermission(application.PermissionDenied)

		svc.Notifications.Send(ctx, "4", application.RequestRoutedTemplate("Hall A"), "")

		assert.Empty(t, svc.Alerter.Alerts())
		assert.Len(t, svc.Harness.Notifications.GetAll(ctx), 1)
	})

	t.Run("works without an alerter", func(t *testing.T) {
		h := testfixtures.NewHarness(t)
		dispatcher := application.NewNotificationDispatcher(h.Notifications, h.Users, nil)

		dispatcher.Send(ctx, "4", application.RequestRoutedTemplate("Hall A"), "")

		assert.Len(t, h.Notifications.GetAll(ctx), 1)
		assert.False(t, dispatcher.RequestAlertPermission(ctx))
	})
}

func TestNotificationDispatcher_FanOut(t *testing.T) {
	ctx := context.Background()

	t.Run("role fan-out reaches exactly the active holders in order", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		second := svc.Harness.Users.Create(ctx, testfixtures.NewUserInput(testfixtures.WithUserRole(persistence.RoleHelpdesk)))
		svc.Harness.Users.Create(ctx, testfixtures.NewUserInput(testfixtures.WithUserRole(persistence.RoleHelpdesk), testfixtures.WithUserActive(false)))
		third := svc.Harness.Users.Create(ctx, testfixtures.NewUserInput(testfixtures.WithUserRole(persistence.RoleHelpdesk)))

		sent := svc.Notifications.SendToRole(ctx, persistence.RoleHelpdesk, application.NewRequestTemplate("John", "Hall"), "b-1")

		assert.Equal(t, []string{"2", second.ID, third.ID}, recipients(sent))
	})

	t.Run("explicit ids keep their order", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		sent := svc.Notifications.SendToUsers(ctx, []string{"3", "1", "4"}, application.UserDeactivatedTemplate("Mary"), "")

		assert.Equal(t, []string{"3", "1", "4"}, recipients(sent))
		assert.Equal(t, []string{"3", "1", "4"}, recipients(svc.Harness.Notifications.GetAll(ctx)))
	})

	t.Run("role without active holders sends nothing", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		inactive := false
		svc.Harness.Users.Update(ctx, "3", persistence.UserPatch{IsActive: &inactive})

		assert.Empty(t, svc.Notifications.SendToRole(ctx, persistence.RoleManager, application.ApprovalNeededTemplate("John", "Hall"), ""))
	})
}

func TestNotificationDispatcher_Bindings(t *testing.T) {
	ctx := context.Background()
	booking := func(svc *testfixtures.Services) persistence.BookingRequest {
		return svc.Harness.Bookings.Create(ctx, testfixtures.NewBookingInput(testfixtures.WithVenue("Hall A"), testfixtures.WithEventDate("2024-02-10")))
	}

	t.Run("new request goes to help desk", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		svc.Notifications.NotifyNewRequest(ctx, booking(svc))

		all := svc.Harness.Notifications.GetAll(ctx)
		assert.Equal(t, []string{"2"}, recipients(all))
		assert.Equal(t, "John Resident has submitted a new booking request for Hall A", all[0].Message)
	})

	t.Run("routed goes to requester and managers", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		svc.Notifications.NotifyRequestRouted(ctx, booking(svc))

		all := svc.Harness.Notifications.GetAll(ctx)
		require.Equal(t, []string{"4", "3"}, recipients(all))
		assert.Equal(t, "Request Routed for Approval", all[0].Title)
		assert.Equal(t, "Approval Required", all[1].Title)
		assert.Equal(t, persistence.NotificationWarning, all[1].Type)
	})

	t.Run("routed skips requesters without an account", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		b := svc.Harness.Bookings.Create(ctx, testfixtures.NewBookingInput(testfixtures.WithRequester("Walk In", "walkin@example.com")))

		svc.Notifications.NotifyRequestRouted(ctx, b)

		assert.Equal(t, []string{"3"}, recipients(svc.Harness.Notifications.GetAll(ctx)))
	})

	t.Run("approved goes to requester and help desk", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		svc.Notifications.NotifyRequestApproved(ctx, booking(svc))

		all := svc.Harness.Notifications.GetAll(ctx)
		require.Equal(t, []string{"4", "2"}, recipients(all))
		assert.Equal(t, "Your booking request for Hall A on 2024-02-10 has been approved", all[1].Message)
	})

	t.Run("rejected carries the reason", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		svc.Notifications.NotifyRequestRejected(ctx, booking(svc), "venue closed")

		all := svc.Harness.Notifications.GetAll(ctx)
		require.Equal(t, []string{"4", "2"}, recipients(all))
		assert.Equal(t, "Your booking request for Hall A has been rejected: venue closed", all[0].Message)
	})

	t.Run("account events go to admins", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		mary := svc.Harness.Users.Create(ctx, testfixtures.NewUserInput(testfixtures.WithUserName("Mary")))

		svc.Notifications.NotifyUserCreated(ctx, mary)
		svc.Notifications.NotifyUserDeactivated(ctx, mary)

		all := svc.Harness.Notifications.GetAll(ctx)
		require.Equal(t, []string{"1", "1"}, recipients(all))
		assert.Equal(t, "A new resident account has been created for Mary", all[0].Message)
		assert.Equal(t, "User account for Mary has been deactivated", all[1].Message)
	})
}

func TestNotificationDispatcher_ReadState(t *testing.T) {
	ctx := context.Background()
	svc := testfixtures.NewServices(t)

	for i := 0; i < 3; i++ {
		svc.Notifications.Send(ctx, "4", application.RequestRoutedTemplate("Hall"), "")
	}
	other := svc.Notifications.Send(ctx, "2", application.NewRequestTemplate("John", "Hall"), "")
	first := svc.Notifications.ForUser(ctx, "4")[0]
	svc.Harness.Notifications.MarkAsRead(ctx, first.ID)

	assert.Equal(t, 2, svc.Notifications.UnreadCount(ctx, "4"))
	assert.Equal(t, 2, svc.Notifications.MarkAllAsRead(ctx, "4"))
	assert.Equal(t, 0, svc.Notifications.UnreadCount(ctx, "4"))
	assert.Equal(t, 0, svc.Notifications.MarkAllAsRead(ctx, "4"))

	unread, _ := svc.Harness.Notifications.GetByID(ctx, other.ID)
	assert.False(t, unread.Read)
	assert.Equal(t, 1, svc.Notifications.UnreadCount(ctx, "2"))
}

func TestNotificationDispatcher_RequestAlertPermission(t *testing.T) {
	ctx := context.Background()

	t.Run("granted and denied are answered without asking", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		assert.True(t, svc.Notifications.RequestAlertPermission(ctx))

		svc.Alerter.SetPermission(application.PermissionDenied)
		assert.False(t, svc.Notifications.RequestAlertPermission(ctx))
		assert.Zero(t, svc.Alerter.PermissionRequests())
	})

	t.Run("undecided permission is requested", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		svc.Alerter.SetPermission(application.PermissionDefault)
		svc.Alerter.Answer = application.PermissionGranted

		assert.True(t, svc.Notifications.RequestAlertPermission(ctx))
		assert.Equal(t, 1, svc.Alerter.PermissionRequests())
	})
}
