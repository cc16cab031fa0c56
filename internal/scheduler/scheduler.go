// Package scheduler drives analysis for open documents through a small
// state machine. File mode analyzes a single file and stops. Smart mode
// answers immediately from whatever context exists, then enhances in
// the background as cross-file discovery completes. Project mode builds
// the full reference closure before issuing anything.
//
// Every edit bumps the document version; background work carries the
// version it was started for and its results are dropped if a newer
// version exists by the time they land. Issue sets are delivered as
// complete replacements, never incrementally.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ariadne-dev/ariadne/internal/analyzer"
	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/adapter"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// Mode selects how much cross-file context analysis gathers.
type Mode string

const (
	ModeFile    Mode = "file"
	ModeSmart   Mode = "smart"
	ModeProject Mode = "project"
)

// State is the scheduler's per-document analysis state.
type State string

const (
	StateIdle            State = "Idle"
	StateFileOnly        State = "FileOnly"
	StateSmartInstant    State = "SmartInstant"
	StateSmartEnhancing  State = "SmartEnhancing"
	StateSmartComplete   State = "SmartComplete"
	StateProjectBuilding State = "ProjectBuilding"
	StateProjectComplete State = "ProjectComplete"
)

// Publication is one complete issue set for a document version. A later
// publication for the same root entirely replaces an earlier one.
type Publication struct {
	Root     string
	Version  uint64
	State    State
	Issues   []models.Issue
	Snapshot *workspace.Snapshot
}

// Config wires a scheduler. Publish is invoked with the scheduler's
// internal lock held and must not call back into the scheduler.
type Config struct {
	Mode           Mode
	Debounce       time.Duration
	Engine         *analyzer.Engine
	Registry       *adapter.Registry
	BuilderOptions []workspace.BuilderOption
	Publish        func(Publication)
}

// Scheduler owns one analysis pipeline per open document.
type Scheduler struct {
	cfg Config

	mu     sync.Mutex
	docs   map[string]*document
	closed bool
	wg     sync.WaitGroup
}

type document struct {
	version uint64
	state   State
	cancel  context.CancelFunc
}

// New builds a scheduler. Zero-value config fields get defaults: smart
// mode, 300ms debounce, a no-op publish.
func New(cfg Config) *Scheduler {
	if cfg.Mode == "" {
		cfg.Mode = ModeSmart
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	if cfg.Publish == nil {
		cfg.Publish = func(Publication) {}
	}
	return &Scheduler{cfg: cfg, docs: make(map[string]*document)}
}

// Open registers a document and analyzes it immediately.
func (s *Scheduler) Open(root string, source []byte) {
	s.schedule(root, source, true)
}

// Edit schedules re-analysis after the debounce interval. In-flight
// background work for the previous version is cancelled right away.
func (s *Scheduler) Edit(root string, source []byte) {
	s.schedule(root, source, false)
}

// Save re-analyzes immediately, skipping the debounce.
func (s *Scheduler) Save(root string, source []byte) {
	s.schedule(root, source, true)
}

// CloseDocument forgets a document and cancels its in-flight work.
func (s *Scheduler) CloseDocument(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[root]; ok {
		if doc.cancel != nil {
			doc.cancel()
		}
		delete(s.docs, root)
	}
}

// Shutdown cancels all in-flight work and waits for it to drain.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for _, doc := range s.docs {
		if doc.cancel != nil {
			doc.cancel()
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// StateOf reports the document's current analysis state.
func (s *Scheduler) StateOf(root string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[root]; ok {
		return doc.state
	}
	return StateIdle
}

// Version reports the document's current version counter.
func (s *Scheduler) Version(root string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[root]; ok {
		return doc.version
	}
	return 0
}

func (s *Scheduler) schedule(root string, source []byte, immediate bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	doc, ok := s.docs[root]
	if !ok {
		doc = &document{state: s.initialState()}
		s.docs[root] = doc
	}
	if doc.cancel != nil {
		doc.cancel()
	}
	doc.version++
	version := doc.version
	ctx, cancel := context.WithCancel(context.Background())
	doc.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()
		if !immediate {
			t := time.NewTimer(s.cfg.Debounce)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
		s.run(ctx, root, source, version)
	}()
}

func (s *Scheduler) initialState() State {
	switch s.cfg.Mode {
	case ModeFile:
		return StateFileOnly
	case ModeProject:
		return StateProjectBuilding
	}
	return StateSmartInstant
}

// run executes one analysis pass for one document version.
func (s *Scheduler) run(ctx context.Context, root string, source []byte, version uint64) {
	wctx := workspace.NewContext()
	builder := workspace.NewBuilder(wctx, s.cfg.Registry, s.cfg.BuilderOptions...)

	var parseDiag []models.Issue
	if err := builder.AddSource(root, source); err != nil {
		parseDiag = append(parseDiag, models.Issue{
			Type:       models.IssueParseFailed,
			Severity:   models.SeverityInfo,
			Message:    fmt.Sprintf("cannot parse %s: %v", root, err),
			Confidence: ir.ConfidenceHigh,
			Location:   ir.Location{File: root},
		})
	}

	switch s.cfg.Mode {
	case ModeFile:
		s.analyzeAndDeliver(root, version, StateFileOnly, wctx, parseDiag)

	case ModeProject:
		s.setState(root, version, StateProjectBuilding)
		if !s.discover(ctx, builder, root) {
			return
		}
		s.analyzeAndDeliver(root, version, StateProjectComplete, wctx, parseDiag)

	default:
		s.analyzeAndDeliver(root, version, StateSmartInstant, wctx, parseDiag)
		s.setState(root, version, StateSmartEnhancing)
		if !s.discover(ctx, builder, root) {
			return
		}
		s.analyzeAndDeliver(root, version, StateSmartComplete, wctx, parseDiag)
	}
}

// discover runs cross-file discovery, reporting whether analysis should
// proceed. Hitting the file ceiling still analyzes; the capped context
// keeps confidence at MEDIUM on its own. An unparseable root stops
// here: the already published result with its parse diagnostic stands,
// rather than enhancing against the stale on-disk copy.
func (s *Scheduler) discover(ctx context.Context, builder *workspace.Builder, root string) bool {
	err := builder.Discover(ctx, root)
	switch {
	case err == nil, errors.Is(err, workspace.ErrFileCeiling):
		return true
	default:
		return false
	}
}

// analyzeAndDeliver runs the engine against the current context and
// publishes a full replacement issue set, unless the version went stale.
func (s *Scheduler) analyzeAndDeliver(root string, version uint64, state State, wctx *workspace.Context, extra []models.Issue) {
	snap := wctx.Snapshot()
	issues := s.cfg.Engine.Run(root, snap.Tree(root), snap)
	if len(extra) > 0 {
		issues = append(issues, extra...)
		models.SortIssues(issues)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[root]
	if !ok || doc.version != version || s.closed {
		return
	}
	doc.state = state
	s.cfg.Publish(Publication{
		Root:     root,
		Version:  version,
		State:    state,
		Issues:   issues,
		Snapshot: snap,
	})
}

// setState moves a document between states without publishing, dropping
// the transition when the version went stale.
func (s *Scheduler) setState(root string, version uint64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[root]; ok && doc.version == version && !s.closed {
		doc.state = state
	}
}
