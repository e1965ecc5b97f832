package handlers

import (
	"errors"
	"net/http"

	"github.com/campusdesk/admissions/src/services"
	"github.com/campusdesk/admissions/src/templates"
	"github.com/gin-gonic/gin"
)

// RegistrationHandler serves the public registration form
type RegistrationHandler struct {
	registrations *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrations *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// HandleRoot sends visitors to the registration form
func (h *RegistrationHandler) HandleRoot(c *gin.Context) {
	c.Redirect(http.StatusFound, "/register")
}

// ShowRegister renders an empty registration form
func (h *RegistrationHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, templates.PageRegister, RegisterView{
		Page: newPage(c, "Register"),
	})
}

// HandleRegister validates the form and stores a pending student
func (h *RegistrationHandler) HandleRegister(c *gin.Context) {
	var input services.RegistrationInput
	if err := c.ShouldBind(&input); err != nil {
		c.HTML(http.StatusBadRequest, templates.PageRegister, RegisterView{
			Page:   newPage(c, "Register"),
			Errors: map[string]string{"form": "Invalid submission."},
		})
		return
	}

	student, err := h.registrations.Register(c.Request.Context(), input)
	if err != nil {
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			renderInternalError(c, "registration", err, "Registration failed")
			return
		}

		status := http.StatusBadRequest
		if errors.Is(err, services.ErrEmailTaken) {
			status = http.StatusConflict
		}
		c.HTML(status, templates.PageRegister, RegisterView{
			Page:   newPage(c, "Register"),
			Name:   input.Name,
			Email:  input.Email,
			Errors: verr.Fields,
		})
		return
	}

	page := newPage(c, "Registration received")
	page.Flash = "Registration successful! Wait for admin approval."
	page.FlashKind = FlashSuccess
	c.HTML(http.StatusOK, templates.PageSuccess, SuccessView{
		Page:  page,
		Email: student.Email,
	})
}
