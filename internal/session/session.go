// Package session models one editor or CLI analysis session. A session
// owns the diagnostic collection for its lifetime; it is passed by
// reference into the pipeline rather than living as a package-level
// singleton, so two concurrent sessions never share state.
package session

import (
	"errors"
	"sync"

	"github.com/ariadne-dev/ariadne/pkg/models"
)

// ErrDisposed is returned when a disposed session is used.
var ErrDisposed = errors.New("session: disposed")

// Phase is the session lifecycle: open, active once work has been
// recorded, disposed at the end.
type Phase int

const (
	PhaseOpen Phase = iota
	PhaseActive
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseActive:
		return "active"
	case PhaseDisposed:
		return "disposed"
	}
	return "unknown"
}

// Session collects diagnostics across analysis passes.
type Session struct {
	mu    sync.Mutex
	phase Phase
	diags []models.Issue
}

// Open starts a session in the open phase.
func Open() *Session {
	return &Session{phase: PhaseOpen}
}

// Phase reports the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Record appends diagnostics and moves the session to active.
func (s *Session) Record(issues ...models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseDisposed {
		return ErrDisposed
	}
	s.phase = PhaseActive
	s.diags = append(s.diags, issues...)
	return nil
}

// Replace swaps the whole collection for one document's paths, keeping
// diagnostics from other files. Issue sets are full replacements per
// document, never incremental patches.
func (s *Session) Replace(file string, issues []models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseDisposed {
		return ErrDisposed
	}
	s.phase = PhaseActive
	kept := s.diags[:0]
	for _, d := range s.diags {
		if d.Location.File != file {
			kept = append(kept, d)
		}
	}
	s.diags = append(kept, issues...)
	return nil
}

// Diagnostics returns a sorted copy of the collection.
func (s *Session) Diagnostics() []models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Issue(nil), s.diags...)
	models.SortIssues(out)
	return out
}

// Dispose ends the session. Further writes return ErrDisposed; Dispose
// itself is idempotent.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseDisposed
	s.diags = nil
}
