package handlers

import (
	"github.com/campusdesk/admissions/src/middleware"
	"github.com/gin-gonic/gin"
)

// Routes bundles handlers and route middleware
type Routes struct {
	Registration *RegistrationHandler
	Admin        *AdminHandler
	Panel        *PanelHandler
	Health       *HealthHandler

	Sessions        *middleware.SessionManager
	LoginLimiter    *middleware.RateLimiter
	RegisterLimiter *middleware.RateLimiter
	CookieSecure    bool
}

// Register attaches every route to router
func (r Routes) Register(router *gin.Engine) {
	// Operational probes
	router.GET("/health", r.Health.HandleHealth)
	router.GET("/ready", r.Health.HandleReady)
	router.GET("/info", r.Health.HandleInfo)

	pages := router.Group("/", middleware.CSRFMiddleware(r.CookieSecure))

	pages.GET("/", r.Registration.HandleRoot)

	register := pages.Group("/register")
	if r.RegisterLimiter != nil {
		register.Use(r.RegisterLimiter.Middleware())
	}
	register.GET("", r.Registration.ShowRegister)
	register.POST("", r.Registration.HandleRegister)

	login := pages.Group("/admin")
	if r.LoginLimiter != nil {
		login.Use(r.LoginLimiter.Middleware())
	}
	login.GET("", r.Admin.ShowLogin)
	login.POST("", r.Admin.HandleLogin)

	// Session required
	authed := pages.Group("/", r.Sessions.RequireAdmin())
	authed.GET("/admin_panel", r.Panel.ShowPanel)
	authed.POST("/admin_panel", r.Panel.HandleApprove)
	authed.GET("/logout", r.Admin.HandleLogout)
}
