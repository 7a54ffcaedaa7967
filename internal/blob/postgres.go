package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-screener/internal/faults"
)

// Postgres is a Store backed by a single audio_objects table. Objects are
// upserted by reference, so re-normalizing or resubmitting an answer replaces
// the stored bytes in place.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// EnsureSchema creates the audio_objects table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS audio_objects (
			ref          TEXT PRIMARY KEY,
			content_type TEXT NOT NULL,
			data         BYTEA NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Put upserts the object under ref.
func (p *Postgres) Put(ctx context.Context, ref, contentType string, data []byte) error {
	if ref == "" {
		return faults.Validation("ref", "storage reference must not be empty")
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO audio_objects (ref, content_type, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ref) DO UPDATE SET content_type = $2, data = $3, updated_at = NOW()`,
		ref, contentType, data,
	)
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", ref, err)
	}
	return nil
}

// Get fetches the object under ref.
func (p *Postgres) Get(ctx context.Context, ref string) ([]byte, string, error) {
	var data []byte
	var contentType string
	err := p.pool.QueryRow(ctx,
		`SELECT data, content_type FROM audio_objects WHERE ref = $1`,
		ref,
	).Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", faults.NotFound("audio object", ref)
		}
		return nil, "", fmt.Errorf("failed to get object %s: %w", ref, err)
	}
	return data, contentType, nil
}

// Delete removes the object under ref. Deleting a missing ref is not an error.
func (p *Postgres) Delete(ctx context.Context, ref string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM audio_objects WHERE ref = $1`, ref)
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", ref, err)
	}
	return nil
}
