package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lugoda-hospital/backend/internal/model"
)

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

// Ensure PgSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

// Create inserts a new submissions row and populates sub.ID and
// sub.SubmittedAt from the database RETURNING clause. Field values are
// bound positionally; they are attacker-controlled free text and must
// never be concatenated into the query.
func (r *PgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (name, email, subject, message, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, submitted_at`,
		sub.Name, sub.Email, sub.Subject, sub.Message, sub.Status,
	).Scan(&sub.ID, &sub.SubmittedAt)
}

// Get returns the submission with the given id, or ErrNotFound.
func (r *PgSubmissionRepository) Get(ctx context.Context, id int64) (*model.Submission, error) {
	var s model.Submission
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, subject, message, submitted_at, status
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.SubmittedAt, &s.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns submissions ordered by submitted_at descending (id breaks
// ties for rows created within the same clock tick), paginated by
// limit/offset, plus the unfiltered total count.
func (r *PgSubmissionRepository) List(ctx context.Context, limit, offset int) ([]*model.Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, subject, message, submitted_at, status
		 FROM submissions
		 ORDER BY submitted_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []*model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.SubmittedAt, &s.Status); err != nil {
			return nil, 0, err
		}
		subs = append(subs, &s)
	}
	return subs, total, rows.Err()
}

// UpdateStatus sets the status of the given submission in place. Returns
// false when no row matched, so the caller can report not-found.
func (r *PgSubmissionRepository) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE submissions SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete permanently removes the given submission. There is no soft delete.
func (r *PgSubmissionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
