package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

type userService interface {
	ListUsers(ctx context.Context, actor persistence.AuthUser) ([]persistence.User, error)
	CreateUser(ctx context.Context, actor persistence.AuthUser, input persistence.UserInput) (persistence.User, error)
	DeactivateUser(ctx context.Context, actor persistence.AuthUser, id string) (persistence.User, error)
}

type UserHandler struct {
	service   userService
	responder responder
	logger    *logrus.Entry
}

func NewUserHandler(service userService, logger *logrus.Entry) *UserHandler {
	return &UserHandler{service: service, responder: newResponder(logger), logger: logger}
}

type userRequest struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Role       persistence.Role `json:"role"`
	Department string           `json:"department"`
	IsActive   *bool            `json:"isActive"`
}

func (h *UserHandler) List(c *gin.Context) {
	user, _ := CurrentUser(c)
	users, err := h.service.ListUsers(c.Request.Context(), user)
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create adds an account. isActive defaults to true.
func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlerLogger(c.Request.Context(), h.logger, "UserHandler", "Create").WithError(err).Warn("failed to decode user")
		h.responder.writeError(c, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	actor, _ := CurrentUser(c)
	created, err := h.service.CreateUser(c.Request.Context(), actor, persistence.UserInput{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		IsActive:   active,
	})
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	actor, _ := CurrentUser(c)
	user, err := h.service.DeactivateUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
