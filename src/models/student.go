package models

import (
	"time"

	"github.com/google/uuid"
)

// Student represents a self-registered student awaiting or holding admission
type Student struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never expose
	Approved     bool       `json:"approved"`
	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
}

// IsPending returns true if the student has not been approved yet
func (s *Student) IsPending() bool {
	return !s.Approved
}

// Status returns the display status of the student
func (s *Student) Status() StudentStatus {
	if s.Approved {
		return StudentStatusApproved
	}
	return StudentStatusPending
}

// MarkApproved flips the approval flag, recording the first approval time
func (s *Student) MarkApproved(now time.Time) {
	if s.ApprovedAt == nil {
		s.ApprovedAt = &now
	}
	s.Approved = true
}
