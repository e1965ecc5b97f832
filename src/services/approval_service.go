package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/campusdesk/admissions/src/templates"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ApprovalResult describes the outcome of an approval
type ApprovalResult struct {
	Student         *models.Student
	AlreadyApproved bool
	Notified        bool
	Students        []*models.Student
}

// ApprovalOptions tunes approval behaviour
type ApprovalOptions struct {
	// RenotifyOnReapproval re-sends the email when the student was already approved
	RenotifyOnReapproval bool
	EmailConfig          *templates.EmailConfig
}

// ApprovalService moves students from pending to approved and notifies them
type ApprovalService struct {
	repo       repositories.StudentRepository
	dispatcher *NotificationDispatcher
	analytics  *AnalyticsService
	opts       ApprovalOptions
	now        func() time.Time
	logger     zerolog.Logger
}

// NewApprovalService creates a new approval service
func NewApprovalService(repo repositories.StudentRepository, dispatcher *NotificationDispatcher, analytics *AnalyticsService, opts ApprovalOptions) *ApprovalService {
	if opts.EmailConfig == nil {
		opts.EmailConfig = templates.DefaultEmailConfig()
	}
	return &ApprovalService{
		repo:       repo,
		dispatcher: dispatcher,
		analytics:  analytics,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logging.NewLogger("approval"),
	}
}

// ParseStudentID parses a submitted id; anything unparsable is an unknown student
func ParseStudentID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrStudentNotFound
	}
	return id, nil
}

// ListStudents returns every student ordered by registration time
func (s *ApprovalService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// Approve marks the student approved and sends the notification.
// Notification failures never fail the approval.
func (s *ApprovalService) Approve(ctx context.Context, studentID uuid.UUID) (*ApprovalResult, error) {
	student, wasApproved, err := s.repo.Approve(ctx, studentID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn().Str("student_id", studentID.String()).Msg("Approval of unknown student")
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to approve student: %w", err)
	}

	result := &ApprovalResult{
		Student:         student,
		AlreadyApproved: wasApproved,
	}

	s.logger.Info().
		Str("student_id", student.ID.String()).
		Str("email", student.Email).
		Bool("already_approved", wasApproved).
		Msg("Student approved")

	if !wasApproved || s.opts.RenotifyOnReapproval {
		if s.dispatcher != nil {
			result.Notified = s.dispatcher.Dispatch(ctx, ApprovalNotification(s.opts.EmailConfig, student))
		}
	}

	if !wasApproved && s.analytics != nil {
		s.analytics.TrackStudentApproved(ctx, student.Email)
	}

	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	result.Students = students

	return result, nil
}
