package mock

import (
	"context"
	"time"

	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/google/uuid"
)

// StudentRepository is a mock implementation of repositories.StudentRepository
type StudentRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc        func(ctx context.Context, student *models.Student) error
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	ListFunc          func(ctx context.Context) ([]*models.Student, error)
	ApproveFunc       func(ctx context.Context, id uuid.UUID, at time.Time) (*models.Student, bool, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewStudentRepository creates a new mock student repository
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	m.Calls["Create"] = append(m.Calls["Create"], student)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, student)
	}
	return nil
}

func (m *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.Calls["ExistsByEmail"] = append(m.Calls["ExistsByEmail"], email)
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	m.Calls["List"] = append(m.Calls["List"], nil)
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *StudentRepository) Approve(ctx context.Context, id uuid.UUID, at time.Time) (*models.Student, bool, error) {
	m.Calls["Approve"] = append(m.Calls["Approve"], id)
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, id, at)
	}
	return nil, false, repositories.ErrNotFound
}

// Ensure StudentRepository implements the interface
var _ repositories.StudentRepository = (*StudentRepository)(nil)
