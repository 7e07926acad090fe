package model

import "time"

// Submission statuses. A submission starts as StatusNew and is moved
// forward by admin triage; replying marks it StatusResponded.
const (
	StatusNew       = "new"
	StatusRead      = "read"
	StatusResponded = "responded"
)

// ValidStatus reports whether s is one of the defined submission statuses.
func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusRead || s == StatusResponded
}

// Submission represents a contact-form submission with its triage status.
type Submission struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
	Status      string    `json:"status"` // "new" | "read" | "responded"
}
