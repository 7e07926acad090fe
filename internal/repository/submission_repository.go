package repository

import (
	"context"

	"github.com/lugoda-hospital/backend/internal/model"
)

// SubmissionRepository defines the persistence interface for contact-form
// submissions. It is defined here (in repository) to avoid an import cycle
// with service.
type SubmissionRepository interface {
	// Create inserts a new submission and populates sub.ID and
	// sub.SubmittedAt from the database.
	Create(ctx context.Context, sub *model.Submission) error

	// Get returns the submission with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Submission, error)

	// List returns up to limit submissions starting at offset, most recent
	// first, together with the total row count.
	List(ctx context.Context, limit, offset int) ([]*model.Submission, int, error)

	// UpdateStatus sets the status of the given submission. The bool
	// reports whether a row was actually updated.
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)

	// Delete permanently removes the given submission. The bool reports
	// whether a row was actually deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}
