package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusdesk/admissions/src/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adminColumns = `id, username, password_hash, created_at, last_login, is_active`

// PostgresAdminRepository implements AdminRepository on a pgx pool
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new Postgres-backed admin repository
func NewAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

func scanAdmin(row pgx.Row) (*models.AdminUser, error) {
	a := &models.AdminUser{}
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.LastLogin, &a.IsActive); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new admin user
func (r *PostgresAdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin (id, username, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt, admin.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

// GetByUsername retrieves an admin by username
func (r *PostgresAdminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	a, err := scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin WHERE username = $1`, username,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

// GetByID retrieves an admin by id
func (r *PostgresAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	a, err := scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

// UpdateLastLogin stamps the admin's last successful login
func (r *PostgresAdminRepository) UpdateLastLogin(ctx context.Context, adminID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE admin SET last_login = NOW() WHERE id = $1`, adminID)
	if err != nil {
		return fmt.Errorf("failed to update last_login: %w", err)
	}
	return nil
}

var _ AdminRepository = (*PostgresAdminRepository)(nil)
