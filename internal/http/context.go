package http

import (
	"github.com/gin-gonic/gin"

	"github.com/example/facility-booking/internal/persistence"
)

const (
	currentUserKey  = "facility.current_user"
	sessionTokenKey = "facility.session_token"
)

func setSession(c *gin.Context, token string, user persistence.AuthUser) {
	c.Set(sessionTokenKey, token)
	c.Set(currentUserKey, user)
}

// CurrentUser returns the user resolved by RequireSession.
func CurrentUser(c *gin.Context) (persistence.AuthUser, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return persistence.AuthUser{}, false
	}
	user, ok := value.(persistence.AuthUser)
	return user, ok
}

// SessionToken returns the bearer token resolved by RequireSession.
func SessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}
