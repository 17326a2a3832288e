package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/logging"
	"github.com/example/facility-booking/internal/persistence"
)

// RequestLogger attaches a request scoped logger to the request context and
// logs one line per completed request.
func RequestLogger(base *logrus.Entry) gin.HandlerFunc {
	base = logging.Or(base)

	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		logger := base.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(logging.ContextWithLogger(c.Request.Context(), logger))

		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"status":    c.Writer.Status(),
			"duration":  time.Since(start),
			"client_ip": c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// RequireSession resolves the bearer token to its session user or aborts
// with 401. Sessions of accounts deactivated since sign in are rejected.
func RequireSession(sessions sessionService, logger *logrus.Entry) gin.HandlerFunc {
	responder := newResponder(logger)

	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			responder.writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errMissingSessionToken)
			return
		}

		user, ok := sessions.ResolveSession(c.Request.Context(), persistence.TokenSessionKey(token))
		if !ok {
			responder.writeError(c, http.StatusUnauthorized, "AUTH_SESSION_NOT_FOUND", errSessionNotFound)
			return
		}

		setSession(c, token, user)
		c.Request = c.Request.WithContext(logging.ContextWithLogger(
			c.Request.Context(),
			responder.loggerFor(c).WithField("user_id", user.ID),
		))
		c.Next()
	}
}

// RequireRole lets the request through only when the session user holds one
// of roles. It must run after RequireSession.
func RequireRole(roles ...persistence.Role) gin.HandlerFunc {
	gate := application.AccessGate{Roles: roles}
	responder := newResponder(nil)

	return func(c *gin.Context) {
		user, resolved := CurrentUser(c)
		switch gate.Evaluate(resolved, &user) {
		case application.GateGranted:
			c.Next()
		case application.GateDenied:
			responder.writeError(c, http.StatusForbidden, "AUTH_FORBIDDEN", errForbidden)
		default:
			responder.writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", errMissingSessionToken)
		}
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
