package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// submissionsSchema is idempotent: startup must never drop existing data.
const submissionsSchema = `
CREATE TABLE IF NOT EXISTS submissions (
    id           BIGSERIAL PRIMARY KEY,
    name         TEXT NOT NULL,
    email        TEXT NOT NULL,
    subject      TEXT NOT NULL,
    message      TEXT NOT NULL,
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    status       TEXT NOT NULL DEFAULT 'new'
)`

// EnsureSchema creates the submissions table if it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, submissionsSchema)
	return err
}

// DropSchema removes the submissions table. Used by the migrate tool's
// reset command only.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `DROP TABLE IF EXISTS submissions`)
	return err
}
