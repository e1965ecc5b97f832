package handlers

import (
	"net/http"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/middleware"
	"github.com/campusdesk/admissions/src/models"
	"github.com/gin-gonic/gin"
)

// Flash kinds map to CSS classes in the layout
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Page holds fields shared by every rendered page
type Page struct {
	Title     string
	CSRFToken string
	Flash     string
	FlashKind string
}

// RegisterView is the registration form
type RegisterView struct {
	Page
	Name   string
	Email  string
	Errors map[string]string
}

// SuccessView confirms a registration
type SuccessView struct {
	Page
	Email string
}

// LoginView is the admin login form
type LoginView struct {
	Page
	Username string
}

// PanelView lists students for the admin
type PanelView struct {
	Page
	Admin    string
	Students []*models.Student
}

func newPage(c *gin.Context, title string) Page {
	return Page{Title: title, CSRFToken: middleware.CSRFToken(c)}
}

// renderInternalError logs err and writes a generic 500 response
func renderInternalError(c *gin.Context, component string, err error, msg string) {
	logger := logging.ComponentLogger(component, middleware.GetRequestID(c))
	logger.Error().Err(err).Msg(msg)
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}
