package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/campusdesk/admissions/src/middleware"
	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/services"
	"github.com/campusdesk/admissions/src/templates"
	"github.com/gin-gonic/gin"
)

// NoSuchStudentMessage is shown when the approve id matches no student
const NoSuchStudentMessage = "No such student"

// PanelHandler serves the admin review panel
type PanelHandler struct {
	approvals *services.ApprovalService
}

// NewPanelHandler creates a new panel handler
func NewPanelHandler(approvals *services.ApprovalService) *PanelHandler {
	return &PanelHandler{approvals: approvals}
}

func (ph *PanelHandler) render(c *gin.Context, status int, students []*models.Student, flash, kind string) {
	page := newPage(c, "Admin Panel")
	page.Flash = flash
	page.FlashKind = kind

	view := PanelView{Page: page, Students: students}
	if admin := middleware.CurrentAdmin(c); admin != nil {
		view.Admin = admin.Username
	}
	c.HTML(status, templates.PageAdmin, view)
}

// ShowPanel lists every student
func (ph *PanelHandler) ShowPanel(c *gin.Context) {
	students, err := ph.approvals.ListStudents(c.Request.Context())
	if err != nil {
		renderInternalError(c, "panel", err, "Failed to list students")
		return
	}
	ph.render(c, http.StatusOK, students, "", "")
}

// HandleApprove approves the student named by the approve field
func (ph *PanelHandler) HandleApprove(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := services.ParseStudentID(c.PostForm("approve"))
	var result *services.ApprovalResult
	if err == nil {
		result, err = ph.approvals.Approve(ctx, id)
	}

	if err != nil {
		if !errors.Is(err, services.ErrStudentNotFound) {
			renderInternalError(c, "panel", err, "Approval failed")
			return
		}

		students, listErr := ph.approvals.ListStudents(ctx)
		if listErr != nil {
			renderInternalError(c, "panel", listErr, "Failed to list students")
			return
		}
		ph.render(c, http.StatusNotFound, students, NoSuchStudentMessage, FlashDanger)
		return
	}

	ph.render(c, http.StatusOK, result.Students, fmt.Sprintf("%s has been approved!", result.Student.Name), FlashSuccess)
}
