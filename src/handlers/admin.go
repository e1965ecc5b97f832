package handlers

import (
	"errors"
	"net/http"

	"github.com/campusdesk/admissions/src/middleware"
	"github.com/campusdesk/admissions/src/services"
	"github.com/campusdesk/admissions/src/templates"
	"github.com/gin-gonic/gin"
)

// LoginFailedMessage is shown for any rejected login
const LoginFailedMessage = "Login Failed. Check username and password"

// AdminLoginForm is the submitted login form
type AdminLoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// AdminHandler handles admin login and logout
type AdminHandler struct {
	admins   *services.AdminService
	sessions *middleware.SessionManager
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admins *services.AdminService, sessions *middleware.SessionManager) *AdminHandler {
	return &AdminHandler{
		admins:   admins,
		sessions: sessions,
	}
}

// ShowLogin renders the login form, skipping it for a signed-in admin
func (ah *AdminHandler) ShowLogin(c *gin.Context) {
	if _, err := ah.sessions.Authenticate(c); err == nil {
		c.Redirect(http.StatusFound, "/admin_panel")
		return
	}

	c.HTML(http.StatusOK, templates.PageLogin, LoginView{
		Page: newPage(c, "Admin Login"),
	})
}

// HandleLogin verifies credentials and starts a session
func (ah *AdminHandler) HandleLogin(c *gin.Context) {
	var form AdminLoginForm
	_ = c.ShouldBind(&form)

	admin, err := ah.admins.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			renderInternalError(c, "admin", err, "Admin login failed")
			return
		}

		page := newPage(c, "Admin Login")
		page.Flash = LoginFailedMessage
		page.FlashKind = FlashDanger
		c.HTML(http.StatusUnauthorized, templates.PageLogin, LoginView{
			Page:     page,
			Username: form.Username,
		})
		return
	}

	if err := ah.sessions.Login(c, admin); err != nil {
		renderInternalError(c, "admin", err, "Failed to start session")
		return
	}

	c.Redirect(http.StatusFound, "/admin_panel")
}

// HandleLogout ends the session
func (ah *AdminHandler) HandleLogout(c *gin.Context) {
	ah.sessions.Logout(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
