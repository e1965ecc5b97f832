package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt will hash
const maxPasswordBytes = 72

// RegistrationInput is the submitted registration form
type RegistrationInput struct {
	Name     string `form:"name" validate:"required,min=2,max=100"`
	Email    string `form:"email" validate:"required,email,max=120"`
	Password string `form:"password" validate:"required,min=6"`
}

// RegistrationService creates pending students
type RegistrationService struct {
	repo      repositories.StudentRepository
	validate  *validator.Validate
	analytics *AnalyticsService
	logger    zerolog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(repo repositories.StudentRepository, analytics *AnalyticsService) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		validate:  newFormValidator(),
		analytics: analytics,
		logger:    logging.NewLogger("registration"),
	}
}

// newFormValidator reports field errors under their form names
func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate trims the input and checks every field rule
func (s *RegistrationService) Validate(in *RegistrationInput) *ValidationError {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	verr := NewValidationError()
	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.Add("form", "Invalid submission.")
			return verr
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	}

	if len(in.Password) > maxPasswordBytes {
		verr.Add("password", fmt.Sprintf("Field cannot be longer than %d bytes.", maxPasswordBytes))
	}

	if !verr.HasErrors() {
		return nil
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// Register validates the input and stores a new pending student
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*models.Student, error) {
	if verr := s.Validate(&in); verr != nil {
		return nil, verr
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		s.logger.Info().Str("email", in.Email).Msg("Registration rejected: email taken")
		return nil, emailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Approved:     false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, student); err != nil {
		// Lost the race against a concurrent registration with the same email
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, emailTakenError()
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info().
		Str("student_id", student.ID.String()).
		Str("email", student.Email).
		Msg("Student registered")

	if s.analytics != nil {
		s.analytics.TrackStudentRegistered(ctx, student.Email)
	}

	return student, nil
}
