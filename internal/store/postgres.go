package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/campus-funding-api/internal/models"
	"github.com/noah-isme/campus-funding-api/pkg/config"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS funding_snapshot (
	id smallint PRIMARY KEY,
	payload jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// PostgresStore keeps the snapshot blob in a single-row table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres connects to PostgreSQL, ensures the snapshot table exists,
// and returns the store.
func NewPostgres(cfg config.PostgresConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure snapshot table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresWithDB wraps an existing connection; used by tests.
func NewPostgresWithDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load reads the snapshot row. An absent row is an empty state.
func (s *PostgresStore) Load(ctx context.Context) (models.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM funding_snapshot WHERE id = 1").Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Snapshot{}, nil
		}
		return models.Snapshot{}, fmt.Errorf("read snapshot row: %w", err)
	}
	return Decode(payload), nil
}

// Save upserts the snapshot row with the full state.
func (s *PostgresStore) Save(ctx context.Context, snap models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO funding_snapshot (id, payload, updated_at) VALUES (1, $1, now())
		 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		data,
	)
	if err != nil {
		return fmt.Errorf("write snapshot row: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
