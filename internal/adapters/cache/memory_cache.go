// Package cache holds the in-memory, session-scoped triage store.
package cache

import (
	"sync"

	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the TriageStore
// interface. It lives for the session; concurrent refresh paths get
// last-writer-wins semantics.
type MemoryStore struct {
	mu          sync.RWMutex
	emails      map[core.Window][]core.TriageEmail
	refreshDays map[core.Window]string
	logger      *zap.Logger
}

// NewMemoryStore creates a new in-memory triage store with every window
// empty
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		emails:      make(map[core.Window][]core.TriageEmail),
		refreshDays: make(map[core.Window]string),
		logger:      logger,
	}
}

// Get retrieves the cached emails for a window
func (s *MemoryStore) Get(window core.Window) ([]core.TriageEmail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emails, ok := s.emails[window]
	return emails, ok
}

// Set stores the emails for a window
func (s *MemoryStore) Set(window core.Window, emails []core.TriageEmail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.emails[window] = emails
	s.logger.Debug("Cached triage window",
		zap.String("window", string(window)),
		zap.Int("count", len(emails)))
}

// RefreshDay returns the calendar-day string a window was last refreshed
// on
func (s *MemoryStore) RefreshDay(window core.Window) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day, ok := s.refreshDays[window]
	return day, ok
}

// SetRefreshDay records the calendar-day string a window was refreshed on
func (s *MemoryStore) SetRefreshDay(window core.Window, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshDays[window] = day
}
