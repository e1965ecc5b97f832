package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusdesk/admissions/src/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

const studentColumns = `id, name, email, password_hash, approved, created_at, approved_at`

// PostgresStudentRepository implements StudentRepository on a pgx pool
type PostgresStudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new Postgres-backed student repository
func NewStudentRepository(pool *pgxpool.Pool) *PostgresStudentRepository {
	return &PostgresStudentRepository{pool: pool}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Approved, &s.CreatedAt, &s.ApprovedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new student. A unique violation on email maps to ErrDuplicate.
func (r *PostgresStudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO student (id, name, email, password_hash, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		student.ID, student.Name, student.Email, student.PasswordHash, student.Approved, student.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert student: %w", err)
	}
	return nil
}

// ExistsByEmail reports whether a student with this email exists (case-insensitive)
func (r *PostgresStudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM student WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student email: %w", err)
	}
	return exists, nil
}

// List returns all students ordered by registration time
func (r *PostgresStudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studentColumns+` FROM student ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return students, nil
}

// Approve locks the row, flips approved and commits
func (r *PostgresStudentRepository) Approve(ctx context.Context, id uuid.UUID, at time.Time) (*models.Student, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s, err := scanStudent(tx.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM student WHERE id = $1 FOR UPDATE`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("failed to lock student: %w", err)
	}

	wasApproved := s.Approved
	s.MarkApproved(at)

	_, err = tx.Exec(ctx,
		`UPDATE student SET approved = true, approved_at = $2 WHERE id = $1`,
		s.ID, s.ApprovedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to approve student: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit approval: %w", err)
	}

	return s, wasApproved, nil
}

// Ensure PostgresStudentRepository implements the interface
var _ StudentRepository = (*PostgresStudentRepository)(nil)
