package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/facility-booking/internal/persistence"
)

type notificationService interface {
	ForUser(ctx context.Context, userID string) []persistence.Notification
	UnreadCount(ctx context.Context, userID string) int
	MarkAllAsRead(ctx context.Context, userID string) int
}

type NotificationHandler struct {
	service notificationService
}

func NewNotificationHandler(service notificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, h.service.ForUser(c.Request.Context(), user.ID))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"count": h.service.UnreadCount(c.Request.Context(), user.ID)})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"marked": h.service.MarkAllAsRead(c.Request.Context(), user.ID)})
}
