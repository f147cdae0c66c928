package core

import (
	"time"
)

// Category is the actionability tier assigned to an email
type Category string

// Canonical categories. The classifier never emits SKIP; skipped emails
// are simply absent from its output.
const (
	CategoryActionable    Category = "ACTIONABLE"
	CategoryInformational Category = "INFORMATIONAL"
)

// Window identifies one of the fixed triage time ranges
type Window string

const (
	WindowToday     Window = "today"
	WindowYesterday Window = "yesterday"
	WindowWeek      Window = "week"
)

// Windows lists all triage windows in display order
var Windows = []Window{WindowToday, WindowYesterday, WindowWeek}

// Mailbox is a snapshot of one mailbox from the provider listing
type Mailbox struct {
	ID   string
	Name string
	Role string
}

// EmailAddress is a single entry of an email's from list
type EmailAddress struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Email is the envelope representation of a message: metadata plus
// preview text, without requiring full body retrieval
type Email struct {
	ID         string          `json:"id"`
	Subject    string          `json:"subject"`
	From       []EmailAddress  `json:"from"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Preview    string          `json:"preview"`
	TextBody   string          `json:"textBody,omitempty"`
	MailboxIDs map[string]bool `json:"mailboxIds,omitempty"`
}

// SenderEmail returns the address of the first sender entry
func (e *Email) SenderEmail() string {
	if len(e.From) == 0 {
		return "Unknown"
	}
	return e.From[0].Email
}

// Classification is one classifier verdict, referencing the position of
// the email in the input batch
type Classification struct {
	EmailIndex int
	Category   Category
	Summary    string
	Action     string
	Context    []string
}

// TriageEmail is the final record shown to the user: the envelope merged
// with its classification
type TriageEmail struct {
	Email
	Category Category `json:"category"`
	Summary  string   `json:"summary"`
	Action   string   `json:"action"`
	Context  []string `json:"context"`
}
