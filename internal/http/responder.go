package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/logging"
)

var (
	errBadRequestBody      = errors.New("request body is malformed")
	errMissingSessionToken = errors.New("a bearer token is required")
	errSessionNotFound     = errors.New("session not found, please sign in again")
	errForbidden           = errors.New("you are not allowed to perform this action")
)

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *logrus.Entry
}

func newResponder(logger *logrus.Entry) responder {
	return responder{logger: logging.Or(logger)}
}

func (r responder) loggerFor(c *gin.Context) *logrus.Entry {
	if logger := logging.FromContext(c.Request.Context()); logger != nil {
		return logger
	}
	return r.logger
}

func (r responder) writeError(c *gin.Context, status int, code string, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
	}
	c.AbortWithStatusJSON(status, errorResponse{ErrorCode: code, Message: message})
}

func (r responder) handleServiceError(c *gin.Context, err error) {
	var vErr *application.ValidationError
	switch {
	case err == nil:
		r.loggerFor(c).Error("service error handler called without an error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeError(c, http.StatusForbidden, "AUTH_FORBIDDEN", errForbidden)
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeError(c, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS", errors.New("no active account matches that email"))
	case errors.Is(err, application.ErrNotFound):
		r.writeError(c, http.StatusNotFound, "NOT_FOUND", errors.New("the requested resource was not found"))
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeError(c, http.StatusConflict, "ALREADY_EXISTS", err)
	case errors.Is(err, application.ErrInvalidTransition):
		r.writeError(c, http.StatusConflict, "INVALID_TRANSITION", err)
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "VALIDATION_FAILED",
			Message:   "the request contains invalid fields",
			Errors:    vErr.FieldErrors,
		})
	default:
		r.loggerFor(c).WithError(err).Error("unexpected service error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}
