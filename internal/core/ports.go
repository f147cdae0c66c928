package core

import (
	"context"
	"time"
)

// MailClient defines the interface for talking to the mail provider
type MailClient interface {
	// ListMailboxes retrieves a snapshot of all mailboxes in the account
	ListMailboxes(ctx context.Context) ([]Mailbox, error)

	// FetchEmails retrieves envelopes received within [start, end),
	// excluding messages that live only in the given mailboxes, newest
	// first, capped at the provider query limit
	FetchEmails(ctx context.Context, start, end time.Time, excludedMailboxIDs []string) ([]Email, error)
}

// Classifier defines the interface for classifying a batch of emails
// against the actionability taxonomy
type Classifier interface {
	// Classify returns one entry per retained email, referencing batch
	// indices; skipped emails are absent from the result
	Classify(ctx context.Context, emails []Email) ([]Classification, error)
}

// TriageStore defines the interface for the per-session triage cache
type TriageStore interface {
	// Get retrieves the cached emails for a window
	Get(window Window) ([]TriageEmail, bool)

	// Set stores the emails for a window
	Set(window Window, emails []TriageEmail)

	// RefreshDay returns the calendar-day string a window was last
	// refreshed on
	RefreshDay(window Window) (string, bool)

	// SetRefreshDay records the calendar-day string a window was
	// refreshed on
	SetRefreshDay(window Window, day string)
}
