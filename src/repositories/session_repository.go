package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// PostgresSessionRepository keeps revoked session ids in admin_session_revocation
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a Postgres-backed revocation store
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// Revoke records the session id until expiresAt
func (r *PostgresSessionRepository) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin_session_revocation (session_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO NOTHING
	`, sessionID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session id has been revoked
func (r *PostgresSessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	var revoked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_session_revocation WHERE session_id = $1)`, sessionID,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return revoked, nil
}

// DeleteExpired purges revocations whose tokens have expired anyway
func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM admin_session_revocation WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revocations: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ SessionRevocationRepository = (*PostgresSessionRepository)(nil)

const redisRevocationPrefix = "admissions:session:revoked:"

// RedisSessionRepository keeps revoked session ids as expiring Redis keys
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository connects to redisURL and verifies the connection
func NewRedisSessionRepository(ctx context.Context, redisURL string) (*RedisSessionRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisSessionRepositoryFromClient(client), nil
}

// NewRedisSessionRepositoryFromClient wraps an existing client
func NewRedisSessionRepositoryFromClient(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// Revoke stores the id with a TTL matching the token's remaining lifetime
func (r *RedisSessionRepository) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, redisRevocationPrefix+sessionID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session id has been revoked
func (r *RedisSessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	err := r.client.Get(ctx, redisRevocationPrefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return true, nil
}

// DeleteExpired is a no-op: Redis expires the keys itself
func (r *RedisSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// Close closes the Redis client
func (r *RedisSessionRepository) Close() error {
	return r.client.Close()
}

var _ SessionRevocationRepository = (*RedisSessionRepository)(nil)
