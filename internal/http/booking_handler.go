package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/persistence"
)

type bookingService interface {
	Submit(ctx context.Context, input persistence.BookingInput) (persistence.BookingRequest, error)
	List(ctx context.Context, actor persistence.AuthUser) []persistence.BookingRequest
	Get(ctx context.Context, actor persistence.AuthUser, id string) (persistence.BookingRequest, error)
	Route(ctx context.Context, actor persistence.AuthUser, id, remarks string) (persistence.BookingRequest, error)
	Approve(ctx context.Context, actor persistence.AuthUser, id, remarks string) (persistence.BookingRequest, error)
	Reject(ctx context.Context, actor persistence.AuthUser, id, reason string) (persistence.BookingRequest, error)
	Stats(ctx context.Context, actor persistence.AuthUser) (application.DashboardStats, error)
	Report(ctx context.Context, actor persistence.AuthUser, filter application.ReportFilter) ([]persistence.BookingRequest, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *logrus.Entry
}

func NewBookingHandler(service bookingService, logger *logrus.Entry) *BookingHandler {
	return &BookingHandler{service: service, responder: newResponder(logger), logger: logger}
}

type transitionRequest struct {
	Remarks string `json:"remarks"`
	Reason  string `json:"reason"`
}

func (h *BookingHandler) List(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, h.service.List(c.Request.Context(), user))
}

func (h *BookingHandler) Get(c *gin.Context) {
	user, _ := CurrentUser(c)
	booking, err := h.service.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Create submits a booking. Any signed in user may submit on behalf of a
// requester.
func (h *BookingHandler) Create(c *gin.Context) {
	var input persistence.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlerLogger(c.Request.Context(), h.logger, "BookingHandler", "Create").WithError(err).Warn("failed to decode booking")
		h.responder.writeError(c, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	booking, err := h.service.Submit(c.Request.Context(), input)
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) Route(c *gin.Context) {
	h.transition(c, func(ctx context.Context, user persistence.AuthUser, req transitionRequest) (persistence.BookingRequest, error) {
		return h.service.Route(ctx, user, c.Param("id"), req.Remarks)
	})
}

func (h *BookingHandler) Approve(c *gin.Context) {
	h.transition(c, func(ctx context.Context, user persistence.AuthUser, req transitionRequest) (persistence.BookingRequest, error) {
		return h.service.Approve(ctx, user, c.Param("id"), req.Remarks)
	})
}

// Reject accepts the reason as "reason" or, failing that, "remarks".
func (h *BookingHandler) Reject(c *gin.Context) {
	h.transition(c, func(ctx context.Context, user persistence.AuthUser, req transitionRequest) (persistence.BookingRequest, error) {
		reason := req.Reason
		if reason == "" {
			reason = req.Remarks
		}
		return h.service.Reject(ctx, user, c.Param("id"), reason)
	})
}

func (h *BookingHandler) transition(c *gin.Context, apply func(context.Context, persistence.AuthUser, transitionRequest) (persistence.BookingRequest, error)) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.responder.writeError(c, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	user, _ := CurrentUser(c)
	booking, err := apply(c.Request.Context(), user, req)
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Stats(c *gin.Context) {
	user, _ := CurrentUser(c)
	stats, err := h.service.Stats(c.Request.Context(), user)
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *BookingHandler) Report(c *gin.Context) {
	var filter application.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.responder.writeError(c, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	user, _ := CurrentUser(c)
	bookings, err := h.service.Report(c.Request.Context(), user, filter)
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
