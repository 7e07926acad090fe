package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/lugoda-hospital/backend/internal/mailer"
	"github.com/lugoda-hospital/backend/internal/model"
	"github.com/lugoda-hospital/backend/internal/repository"
)

// adminServiceImpl is the production implementation of AdminService.
type adminServiceImpl struct {
	repo   repository.SubmissionRepository
	mailer mailer.Mailer
}

// NewAdminService creates an AdminService backed by the given repository
// and mailer.
func NewAdminService(repo repository.SubmissionRepository, m mailer.Mailer) AdminService {
	return &adminServiceImpl{repo: repo, mailer: m}
}

// List returns the given 1-based page of submissions plus paging totals.
func (s *adminServiceImpl) List(ctx context.Context, page, pageSize int) (*SubmissionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	offset := (page - 1) * pageSize
	subs, total, err := s.repo.List(ctx, pageSize, offset)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &SubmissionPage{
		Submissions: subs,
		Total:       total,
		Page:        page,
		TotalPages:  totalPages,
	}, nil
}

// UpdateStatus sets a submission's status after validating the value.
// Zero rows affected is reported as not-found, never as success.
func (s *adminServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !model.ValidStatus(status) {
		return ErrInvalidStatus
	}

	changed, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !changed {
		return repository.ErrNotFound
	}
	return nil
}

// Delete permanently removes a submission.
func (s *adminServiceImpl) Delete(ctx context.Context, id int64) error {
	changed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !changed {
		return repository.ErrNotFound
	}
	return nil
}

// Reply sends the admin's reply to the submitter's address and, only after
// the transport accepted it, transitions the submission to "responded".
// The send is awaited because the status transition depends on its outcome.
func (s *adminServiceImpl) Reply(ctx context.Context, id int64, subject, message string) (string, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if !s.mailer.Configured() {
		return "", mailer.ErrNotConfigured
	}

	body := replyBody(sub, message)
	if err := s.mailer.Send(ctx, sub.Email, subject, body); err != nil {
		return "", err
	}

	// The reply already left the building, so a failed status write must
	// not turn the operation into an error for the admin.
	if _, err := s.repo.UpdateStatus(ctx, id, model.StatusResponded); err != nil {
		slog.Error("status update after reply failed", "submission_id", id, "error", err)
	}
	return sub.Email, nil
}

// replyBody composes the reply email, quoting the original message below
// the new one the way a mail client would.
func replyBody(sub *model.Submission, message string) string {
	return fmt.Sprintf(
		"<p>%s</p><hr>"+
			"<p><em>On %s, %s wrote:</em></p>"+
			"<blockquote>%s</blockquote>",
		strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"),
		sub.SubmittedAt.Format("Jan 2, 2006"),
		html.EscapeString(sub.Name),
		strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br>"),
	)
}
