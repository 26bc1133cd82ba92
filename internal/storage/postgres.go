package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hireloop/interview-engine/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// SaveSnapshot upserts the session record. The full session is stored as
// JSON; state and timestamps are lifted into columns for querying.
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	query := `
		INSERT INTO interview_sessions (id, state, created_at, ended_at, expires_at, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET state = EXCLUDED.state,
		    ended_at = EXCLUDED.ended_at,
		    expires_at = EXCLUDED.expires_at,
		    data = EXCLUDED.data
	`

	_, err = r.pool.Exec(ctx, query,
		sess.ID,
		string(sess.State),
		sess.CreatedAt,
		sess.EndedAt,
		sess.ExpiresAt,
		data,
	)
	if err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves a session record by id. Returns (nil, nil) when
// no snapshot exists.
func (r *PostgresRepository) LoadSnapshot(ctx context.Context, id string) (*models.Session, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM interview_sessions WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}
	return &sess, nil
}

// DeleteSnapshot removes a session record.
func (r *PostgresRepository) DeleteSnapshot(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM interview_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}
