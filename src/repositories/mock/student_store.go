package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/google/uuid"
)

// StudentStore is a map-backed student table for tests that need state
// across calls (uniqueness, idempotent approval).
type StudentStore struct {
	mu       sync.Mutex
	students map[uuid.UUID]models.Student
}

// NewStudentRepositoryWithStore returns a mock whose stubs operate on a fresh StudentStore
func NewStudentRepositoryWithStore() (*StudentRepository, *StudentStore) {
	store := &StudentStore{students: make(map[uuid.UUID]models.Student)}
	repo := NewStudentRepository()

	repo.CreateFunc = store.create
	repo.ExistsByEmailFunc = store.existsByEmail
	repo.ListFunc = store.list
	repo.ApproveFunc = store.approve

	return repo, store
}

// Len returns the number of stored students
func (s *StudentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.students)
}

// Put stores a copy of the student, replacing any record with the same id
func (s *StudentStore) Put(student models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[student.ID] = student
}

// Snapshot returns copies of all students ordered by creation time
func (s *StudentStore) Snapshot() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *StudentStore) create(ctx context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if strings.EqualFold(existing.Email, student.Email) {
			return repositories.ErrDuplicate
		}
	}
	s.students[student.ID] = *student
	return nil
}

func (s *StudentStore) existsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if strings.EqualFold(existing.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *StudentStore) list(ctx context.Context) ([]*models.Student, error) {
	snapshot := s.Snapshot()
	out := make([]*models.Student, len(snapshot))
	for i := range snapshot {
		out[i] = &snapshot[i]
	}
	return out, nil
}

func (s *StudentStore) approve(ctx context.Context, id uuid.UUID, at time.Time) (*models.Student, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return nil, false, repositories.ErrNotFound
	}
	wasApproved := st.Approved
	st.MarkApproved(at)
	s.students[id] = st
	return &st, wasApproved, nil
}
