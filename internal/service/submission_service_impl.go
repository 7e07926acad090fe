package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/lugoda-hospital/backend/internal/mailer"
	"github.com/lugoda-hospital/backend/internal/model"
	"github.com/lugoda-hospital/backend/internal/repository"
)

// emailPattern is a deliberately loose local@domain.tld shape check, not a
// full RFC 5322 parse.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

const notifyTimeout = 30 * time.Second

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	repo     repository.SubmissionRepository
	mailer   mailer.Mailer
	notifyTo string
}

// NewSubmissionService creates a SubmissionService backed by the given
// repository and mailer. notifyTo is the staff address that receives
// new-submission notices; empty disables notifications.
func NewSubmissionService(repo repository.SubmissionRepository, m mailer.Mailer, notifyTo string) SubmissionService {
	return &submissionServiceImpl{repo: repo, mailer: m, notifyTo: notifyTo}
}

// Submit validates and stores a new contact-form submission, then fires
// the staff notification email without blocking on its outcome.
func (s *submissionServiceImpl) Submit(ctx context.Context, sub *model.Submission) error {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Subject = strings.TrimSpace(sub.Subject)
	sub.Message = strings.TrimSpace(sub.Message)

	if sub.Name == "" || sub.Email == "" || sub.Subject == "" || sub.Message == "" {
		return ErrMissingField
	}
	if !emailPattern.MatchString(sub.Email) {
		return ErrInvalidEmail
	}

	sub.Name = sanitize(sub.Name, false)
	sub.Email = sanitize(sub.Email, false)
	sub.Subject = sanitize(sub.Subject, false)
	sub.Message = sanitize(sub.Message, true)
	sub.Status = model.StatusNew

	if err := s.repo.Create(ctx, sub); err != nil {
		return err
	}

	s.notify(sub)
	return nil
}

// notify sends the new-submission notice to the staff address in the
// background. The HTTP response must not wait on the mail transport, and
// a failed notice never rolls back the stored submission.
func (s *submissionServiceImpl) notify(sub *model.Submission) {
	if s.notifyTo == "" || !s.mailer.Configured() {
		return
	}

	subject := fmt.Sprintf("New contact submission #%d: %s", sub.ID, sub.Subject)
	body := fmt.Sprintf(
		"<h2>New contact form submission</h2>"+
			"<p><strong>From:</strong> %s &lt;%s&gt;</p>"+
			"<p><strong>Subject:</strong> %s</p>"+
			"<p>%s</p>",
		html.EscapeString(sub.Name),
		html.EscapeString(sub.Email),
		html.EscapeString(sub.Subject),
		strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br>"),
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.mailer.Send(ctx, s.notifyTo, subject, body); err != nil {
			slog.Error("notification email failed", "submission_id", sub.ID, "error", err)
		}
	}()
}

// sanitize strips characters significant to SQL tooling plus control
// characters. Line breaks and tabs are kept only in the message body;
// parameterized queries carry the real injection defense, this trims the
// payload before it ever reaches logs or mail bodies.
func sanitize(s string, keepNewlines bool) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', ';', '`', '\\':
			return -1
		case '\n', '\t':
			if keepNewlines {
				return r
			}
			return -1
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
