package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/persistence"
)

type sessionService interface {
	Login(ctx context.Context, email, password string) (string, persistence.AuthUser, error)
	ResolveSession(ctx context.Context, session persistence.SessionKey) (persistence.AuthUser, bool)
	Logout(ctx context.Context, session persistence.SessionKey)
}

type AuthHandler struct {
	service   sessionService
	responder responder
	logger    *logrus.Entry
}

func NewAuthHandler(service sessionService, logger *logrus.Entry) *AuthHandler {
	return &AuthHandler{service: service, responder: newResponder(logger), logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string               `json:"token"`
	User  persistence.AuthUser `json:"user"`
}

// CreateSession signs a user in and returns the token naming the new session.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()
	logger := handlerLogger(ctx, h.logger, "AuthHandler", "CreateSession")

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithError(err).Warn("failed to decode session request")
		h.responder.writeError(c, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	token, user, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		logger.WithField("error_kind", application.ErrorKind(err)).Warn("sign in refused")
		h.responder.handleServiceError(c, err)
		return
	}

	logger.WithField("user_id", user.ID).Info("user signed in")
	c.JSON(http.StatusCreated, loginResponse{Token: token, User: user})
}

// GetCurrentSession returns the session user.
func (h *AuthHandler) GetCurrentSession(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, loginResponse{Token: SessionToken(c), User: user})
}

// DeleteCurrentSession signs the session user out.
func (h *AuthHandler) DeleteCurrentSession(c *gin.Context) {
	h.service.Logout(c.Request.Context(), persistence.TokenSessionKey(SessionToken(c)))
	c.Status(http.StatusNoContent)
}
