package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TriageService is the core service orchestrating the triage pipeline:
// resolve excluded mailboxes, fetch a window, classify the batch,
// normalize the categories and cache the result per window.
type TriageService struct {
	mail       MailClient
	classifier Classifier
	store      TriageStore
	logger     *zap.Logger
	location   *time.Location
	now        func() time.Time
}

// NewTriageService creates a new triage service
func NewTriageService(
	mail MailClient,
	classifier Classifier,
	store TriageStore,
	logger *zap.Logger,
	location *time.Location,
	now func() time.Time,
) *TriageService {
	if location == nil {
		location = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &TriageService{
		mail:       mail,
		classifier: classifier,
		store:      store,
		logger:     logger,
		location:   location,
		now:        now,
	}
}

// RunFullCycle recomputes the today window and, when their stored
// refresh-day is not the current calendar day, the yesterday and week
// windows as well. A failed window aborts the cycle and leaves every
// previously cached value untouched.
func (s *TriageService) RunFullCycle(ctx context.Context) error {
	now := s.now().In(s.location)
	todayStart := s.midnightOf(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)
	today := dayString(todayStart)

	todayEmails, err := s.triageWindow(ctx, todayStart, now)
	if err != nil {
		return err
	}
	s.store.Set(WindowToday, todayEmails)

	if s.isStale(WindowYesterday, today) {
		emails, err := s.triageWindow(ctx, yesterdayStart, todayStart)
		if err != nil {
			return err
		}
		s.store.Set(WindowYesterday, emails)
		s.store.SetRefreshDay(WindowYesterday, today)
	} else {
		s.logger.Debug("Yesterday window still fresh, keeping cached result",
			zap.String("day", today))
	}

	if s.isStale(WindowWeek, today) {
		emails, err := s.triageWindow(ctx, weekStart, yesterdayStart)
		if err != nil {
			return err
		}
		s.store.Set(WindowWeek, emails)
		s.store.SetRefreshDay(WindowWeek, today)
	} else {
		s.logger.Debug("Week window still fresh, keeping cached result",
			zap.String("day", today))
	}

	return nil
}

// RefreshToday recomputes only the today window, leaving the yesterday
// and week cache entries untouched regardless of staleness.
func (s *TriageService) RefreshToday(ctx context.Context) error {
	now := s.now().In(s.location)
	todayStart := s.midnightOf(now)

	emails, err := s.triageWindow(ctx, todayStart, now)
	if err != nil {
		return err
	}
	s.store.Set(WindowToday, emails)
	return nil
}

// Emails returns the cached triage result for a window, or an empty
// slice if the window has never been populated.
func (s *TriageService) Emails(window Window) []TriageEmail {
	if emails, ok := s.store.Get(window); ok {
		return emails
	}
	return []TriageEmail{}
}

// triageWindow runs the pipeline for one time interval [start, end)
func (s *TriageService) triageWindow(ctx context.Context, start, end time.Time) ([]TriageEmail, error) {
	// The exclusion set is re-resolved on every window so mailbox
	// topology changes are picked up mid-session.
	mailboxes, err := s.mail.ListMailboxes(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	excluded := ExcludedMailboxIDs(mailboxes)

	emails, err := s.mail.FetchEmails(ctx, start, end, excluded)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	s.logger.Info("Fetched emails for window",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("count", len(emails)),
		zap.Int("excluded_mailboxes", len(excluded)))

	if len(emails) == 0 {
		return []TriageEmail{}, nil
	}

	classifications, err := s.classifier.Classify(ctx, emails)
	if err != nil {
		return nil, &ClassificationError{Err: err}
	}

	return NormalizeEmails(s.merge(emails, classifications)), nil
}

// merge joins classifier verdicts back onto their envelopes. Entries
// whose index falls outside the batch are dropped with a warning rather
// than failing the cycle.
func (s *TriageService) merge(emails []Email, classifications []Classification) []TriageEmail {
	merged := make([]TriageEmail, 0, len(classifications))
	for _, c := range classifications {
		if c.EmailIndex < 0 || c.EmailIndex >= len(emails) {
			s.logger.Warn("Dropping classification with out-of-range email index",
				zap.Int("email_index", c.EmailIndex),
				zap.Int("batch_size", len(emails)))
			continue
		}
		contextLines := c.Context
		if contextLines == nil {
			contextLines = []string{}
		}
		merged = append(merged, TriageEmail{
			Email:    emails[c.EmailIndex],
			Category: c.Category,
			Summary:  c.Summary,
			Action:   c.Action,
			Context:  contextLines,
		})
	}
	return merged
}

// isStale reports whether a window needs refetching on the given
// calendar day
func (s *TriageService) isStale(window Window, today string) bool {
	day, ok := s.store.RefreshDay(window)
	return !ok || day != today
}

// midnightOf returns the start of the calendar day containing t
func (s *TriageService) midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.location)
}

// dayString formats a time as the calendar-day key used for staleness
// checks
func dayString(t time.Time) string {
	return t.Format("2006-01-02")
}
