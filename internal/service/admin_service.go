package service

import (
	"context"
	"errors"

	"github.com/lugoda-hospital/backend/internal/model"
)

// ErrInvalidStatus is returned when a status update names an unknown status.
var ErrInvalidStatus = errors.New("invalid status")

// SubmissionPage is one page of the admin submission listing.
type SubmissionPage struct {
	Submissions []*model.Submission
	Total       int
	Page        int
	TotalPages  int
}

// AdminService defines the staff-facing triage operations. Admin identity
// is established by the gateway's Basic auth before any call reaches this
// component; it performs no identity checks of its own.
type AdminService interface {
	// List returns the given 1-based page of submissions, most recent first.
	List(ctx context.Context, page, pageSize int) (*SubmissionPage, error)

	// UpdateStatus sets a submission's status. Returns ErrInvalidStatus
	// for an unknown status and repository.ErrNotFound for an unknown id.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// Delete permanently removes a submission. Returns
	// repository.ErrNotFound for an unknown id.
	Delete(ctx context.Context, id int64) error

	// Reply emails the submitter and, on send success, transitions the
	// submission to "responded". Returns the recipient address. A send
	// failure leaves the status untouched.
	Reply(ctx context.Context, id int64, subject, message string) (string, error)
}
