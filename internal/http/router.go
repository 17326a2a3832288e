package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

// RouterConfig carries the handlers mounted by NewRouter. Nil handlers leave
// their routes unmounted.
type RouterConfig struct {
	Sessions      sessionService
	Auth          *AuthHandler
	Bookings      *BookingHandler
	Notifications *NotificationHandler
	Facilities    *FacilityHandler
	Users         *UserHandler
	Logger        *logrus.Entry
	Middleware    []gin.HandlerFunc
}

// NewRouter builds the API engine. Everything under /api/v1 except sign in
// requires a bearer session.
func NewRouter(cfg RouterConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(cfg.Logger))
	for _, mw := range cfg.Middleware {
		if mw != nil {
			engine.Use(mw)
		}
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	if cfg.Auth != nil {
		api.POST("/sessions", cfg.Auth.CreateSession)
	}
	if cfg.Sessions == nil {
		return engine
	}

	authed := api.Group("", RequireSession(cfg.Sessions, cfg.Logger))
	staff := RequireRole(persistence.RoleHelpdesk, persistence.RoleManager, persistence.RoleAdmin)
	admin := RequireRole(persistence.RoleAdmin)

	if cfg.Auth != nil {
		authed.GET("/sessions/current", cfg.Auth.GetCurrentSession)
		authed.DELETE("/sessions/current", cfg.Auth.DeleteCurrentSession)
	}

	if cfg.Bookings != nil {
		bookings := authed.Group("/bookings")
		bookings.GET("", cfg.Bookings.List)
		bookings.POST("", cfg.Bookings.Create)
		bookings.GET("/stats", staff, cfg.Bookings.Stats)
		bookings.GET("/report", staff, cfg.Bookings.Report)
		bookings.GET("/:id", cfg.Bookings.Get)
		bookings.POST("/:id/route", cfg.Bookings.Route)
		bookings.POST("/:id/approve", cfg.Bookings.Approve)
		bookings.POST("/:id/reject", cfg.Bookings.Reject)
	}

	if cfg.Notifications != nil {
		notifications := authed.Group("/notifications")
		notifications.GET("", cfg.Notifications.List)
		notifications.GET("/unread-count", cfg.Notifications.UnreadCount)
		notifications.POST("/read-all", cfg.Notifications.MarkAllAsRead)
	}

	if cfg.Facilities != nil {
		facilities := authed.Group("/facilities")
		facilities.GET("", cfg.Facilities.List)
		facilities.POST("", admin, cfg.Facilities.Create)
		facilities.PATCH("/:id", admin, cfg.Facilities.Update)
		facilities.DELETE("/:id", admin, cfg.Facilities.Delete)
	}

	if cfg.Users != nil {
		users := authed.Group("/users", admin)
		users.GET("", cfg.Users.List)
		users.POST("", cfg.Users.Create)
		users.POST("/:id/deactivate", cfg.Users.Deactivate)
	}

	return engine
}
