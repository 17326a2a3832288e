package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

// NotificationDispatcher records notifications for users and mirrors them to
// an optional Alerter. It never changes booking state.
type NotificationDispatcher struct {
	notifications persistence.NotificationRepository
	users         persistence.UserRepository
	alerter       Alerter
	logger        *logrus.Entry
}

// NewNotificationDispatcher wires the dispatcher. alerter may be nil.
func NewNotificationDispatcher(notifications persistence.NotificationRepository, users persistence.UserRepository, alerter Alerter) *NotificationDispatcher {
	return NewNotificationDispatcherWithLogger(notifications, users, alerter, nil)
}

// NewNotificationDispatcherWithLogger wires the dispatcher with a specified logger.
func NewNotificationDispatcherWithLogger(notifications persistence.NotificationRepository, users persistence.UserRepository, alerter Alerter, logger *logrus.Entry) *NotificationDispatcher {
	return &NotificationDispatcher{notifications: notifications, users: users, alerter: alerter, logger: logger}
}

func (d *NotificationDispatcher) loggerWith(ctx context.Context, operation string, fields logrus.Fields) *logrus.Entry {
	return serviceLogger(ctx, d.logger, "NotificationDispatcher", operation, fields)
}

// Send stores one notification for userID and, when permitted, alerts them.
// Alert failures are logged and do not affect the stored record.
func (d *NotificationDispatcher) Send(ctx context.Context, userID string, tpl Template, relatedID string) persistence.Notification {
	notification := d.notifications.Create(ctx, persistence.NotificationInput{
		UserID:           userID,
		Title:            tpl.Title,
		Message:          tpl.Message,
		Type:             tpl.Type,
		RelatedRequestID: relatedID,
	})
	d.alert(ctx, notification)
	return notification
}

// SendToRole notifies every active user holding role, in repository order.
func (d *NotificationDispatcher) SendToRole(ctx context.Context, role persistence.Role, tpl Template, relatedID string) []persistence.Notification {
	sent := []persistence.Notification{}
	for _, user := range d.users.GetByRole(ctx, role) {
		if !user.IsActive {
			continue
		}
		sent = append(sent, d.Send(ctx, user.ID, tpl, relatedID))
	}
	return sent
}

// SendToUsers notifies each of userIDs in the given order.
func (d *NotificationDispatcher) SendToUsers(ctx context.Context, userIDs []string, tpl Template, relatedID string) []persistence.Notification {
	sent := make([]persistence.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		sent = append(sent, d.Send(ctx, id, tpl, relatedID))
	}
	return sent
}

func (d *NotificationDispatcher) alert(ctx context.Context, notification persistence.Notification) {
	if d.alerter == nil || d.alerter.Permission(ctx) != PermissionGranted {
		return
	}

	recipient, ok := d.users.GetByID(ctx, notification.UserID)
	if !ok {
		recipient = persistence.User{ID: notification.UserID}
	}

	err := d.alerter.Alert(ctx, Alert{
		Recipient: recipient,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      notification.Type,
		RelatedID: notification.RelatedRequestID,
	})
	if err != nil {
		d.loggerWith(ctx, "Alert", logrus.Fields{
			"notification_id": notification.ID,
			"user_id":         notification.UserID,
		}).WithError(err).Warn("failed to deliver alert")
	}
}

// RequestAlertPermission reports whether alerts may be shown, asking the
// alerter only when no decision has been made yet.
func (d *NotificationDispatcher) RequestAlertPermission(ctx context.Context) bool {
	if d.alerter == nil {
		return false
	}
	switch d.alerter.Permission(ctx) {
	case PermissionGranted:
		return true
	case PermissionDenied:
		return false
	}

	permission, err := d.alerter.RequestPermission(ctx)
	if err != nil {
		d.loggerWith(ctx, "RequestAlertPermission", nil).WithError(err).Warn("alert permission request failed")
		return false
	}
	return permission == PermissionGranted
}

// NotifyNewRequest tells active help desk staff about a new booking.
func (d *NotificationDispatcher) NotifyNewRequest(ctx context.Context, booking persistence.BookingRequest) {
	tpl := NewRequestTemplate(booking.RequesterInfo.Name, booking.EventDetails.VenueRequested)
	sent := d.SendToRole(ctx, persistence.RoleHelpdesk, tpl, booking.ID)
	d.logFanOut(ctx, "NotifyNewRequest", booking.ID, len(sent))
}

// NotifyRequestRouted tells the requester, when they have an account, and
// every active manager that the booking awaits approval.
func (d *NotificationDispatcher) NotifyRequestRouted(ctx context.Context, booking persistence.BookingRequest) {
	venue := booking.EventDetails.VenueRequested
	count := 0
	if requester, ok := d.users.GetByEmail(ctx, booking.RequesterInfo.Email); ok {
		d.Send(ctx, requester.ID, RequestRoutedTemplate(venue), booking.ID)
		count++
	}
	count += len(d.SendToRole(ctx, persistence.RoleManager, ApprovalNeededTemplate(booking.RequesterInfo.Name, venue), booking.ID))
	d.logFanOut(ctx, "NotifyRequestRouted", booking.ID, count)
}

func (d *NotificationDispatcher) NotifyRequestApproved(ctx context.Context, booking persistence.BookingRequest) {
	tpl := RequestApprovedTemplate(booking.EventDetails.VenueRequested, booking.EventDetails.EventScheduleStartDate)
	d.notifyRequesterAndHelpdesk(ctx, "NotifyRequestApproved", booking, tpl)
}

// NotifyRequestRejected includes reason in the message when non-empty.
func (d *NotificationDispatcher) NotifyRequestRejected(ctx context.Context, booking persistence.BookingRequest, reason string) {
	tpl := RequestRejectedTemplate(booking.EventDetails.VenueRequested, reason)
	d.notifyRequesterAndHelpdesk(ctx, "NotifyRequestRejected", booking, tpl)
}

func (d *NotificationDispatcher) notifyRequesterAndHelpdesk(ctx context.Context, operation string, booking persistence.BookingRequest, tpl Template) {
	count := 0
	if requester, ok := d.users.GetByEmail(ctx, booking.RequesterInfo.Email); ok {
		d.Send(ctx, requester.ID, tpl, booking.ID)
		count++
	}
	count += len(d.SendToRole(ctx, persistence.RoleHelpdesk, tpl, booking.ID))
	d.logFanOut(ctx, operation, booking.ID, count)
}

func (d *NotificationDispatcher) NotifyUserCreated(ctx context.Context, user persistence.User) {
	sent := d.SendToRole(ctx, persistence.RoleAdmin, UserCreatedTemplate(user.Name, user.Role), "")
	d.logFanOut(ctx, "NotifyUserCreated", user.ID, len(sent))
}

func (d *NotificationDispatcher) NotifyUserDeactivated(ctx context.Context, user persistence.User) {
	sent := d.SendToRole(ctx, persistence.RoleAdmin, UserDeactivatedTemplate(user.Name), "")
	d.logFanOut(ctx, "NotifyUserDeactivated", user.ID, len(sent))
}

func (d *NotificationDispatcher) logFanOut(ctx context.Context, operation, subjectID string, count int) {
	d.loggerWith(ctx, operation, logrus.Fields{
		"subject_id": subjectID,
		"recipients": count,
	}).Debug("notifications dispatched")
}

// ForUser returns userID's notifications, oldest first.
func (d *NotificationDispatcher) ForUser(ctx context.Context, userID string) []persistence.Notification {
	return d.notifications.GetByUserID(ctx, userID)
}

// UnreadCount counts userID's unread notifications.
func (d *NotificationDispatcher) UnreadCount(ctx context.Context, userID string) int {
	count := 0
	for _, n := range d.notifications.GetByUserID(ctx, userID) {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAllAsRead marks each unread notification of userID in its own
// read-modify-write cycle and returns how many it marked.
func (d *NotificationDispatcher) MarkAllAsRead(ctx context.Context, userID string) int {
	marked := 0
	for _, n := range d.notifications.GetByUserID(ctx, userID) {
		if n.Read {
			continue
		}
		if d.notifications.MarkAsRead(ctx, n.ID) {
			marked++
		}
	}
	d.loggerWith(ctx, "MarkAllAsRead", logrus.Fields{"user_id": userID, "marked": marked}).Debug("notifications marked read")
	return marked
}
