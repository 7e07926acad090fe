package service

import (
	"context"
	"errors"

	"github.com/lugoda-hospital/backend/internal/model"
)

// Validation errors reported by SubmissionService.Submit. Handlers map
// these to 400 responses.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidEmail = errors.New("invalid email address")
)

// SubmissionService defines the business logic for public contact-form intake.
type SubmissionService interface {
	// Submit validates, sanitizes and stores a new submission. On success
	// sub.ID and sub.SubmittedAt are populated and a notification email is
	// dispatched in the background; notification failures never fail the
	// submission.
	Submit(ctx context.Context, sub *model.Submission) error
}
