// Package service orchestrates the analysis pipeline for the CLI and the
// MCP server: scan, parse (with caching), build the cross-file context,
// analyze, fix, optimize, generate.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ariadne-dev/ariadne/internal/analyzer"
	"github.com/ariadne-dev/ariadne/internal/cache"
	"github.com/ariadne-dev/ariadne/internal/classify"
	"github.com/ariadne-dev/ariadne/internal/fixer"
	"github.com/ariadne-dev/ariadne/internal/optimizer"
	"github.com/ariadne-dev/ariadne/internal/scanner"
	"github.com/ariadne-dev/ariadne/internal/session"
	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/adapter"
	"github.com/ariadne-dev/ariadne/pkg/adapter/htmladapter"
	"github.com/ariadne-dev/ariadne/pkg/adapter/irjson"
	"github.com/ariadne-dev/ariadne/pkg/adapter/jsadapter"
	"github.com/ariadne-dev/ariadne/pkg/config"
	"github.com/ariadne-dev/ariadne/pkg/generator"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// Service wires the pipeline stages together.
type Service struct {
	config     *config.Config
	registry   *adapter.Registry
	generators *generator.Registry
	cache      *cache.Cache
	session    *session.Session
	readFile   func(string) ([]byte, error)
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) { s.config = cfg }
}

// WithRegistry sets the adapter registry.
func WithRegistry(r *adapter.Registry) Option {
	return func(s *Service) { s.registry = r }
}

// WithGenerators sets the generator registry.
func WithGenerators(r *generator.Registry) Option {
	return func(s *Service) { s.generators = r }
}

// WithCache sets the IR tree cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithReadFile overrides file reading (for testing).
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(s *Service) { s.readFile = fn }
}

// New creates a service with the default front-ends and back-ends
// registered.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		config:   config.LoadOrDefault(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = adapter.NewRegistry(irjson.New(), jsadapter.New(), htmladapter.New())
	}
	if s.generators == nil {
		s.generators = generator.NewRegistry(generator.NewIRJSON(), generator.NewJSSnippet())
	}
	if s.cache == nil {
		c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTL, s.config.Cache.Enabled)
		if err != nil {
			return nil, fmt.Errorf("service: open cache: %w", err)
		}
		s.cache = c
	}
	s.session = session.Open()
	return s, nil
}

// Config returns the active configuration.
func (s *Service) Config() *config.Config { return s.config }

// Registry returns the adapter registry.
func (s *Service) Registry() *adapter.Registry { return s.registry }

// Generators returns the generator registry.
func (s *Service) Generators() *generator.Registry { return s.generators }

// Session returns the diagnostics session backing this service.
func (s *Service) Session() *session.Session { return s.session }

// Close disposes the session.
func (s *Service) Close() {
	s.session.Dispose()
}

// Engine builds the analyzer engine the configuration asks for.
func (s *Service) Engine() *analyzer.Engine {
	var classifier classify.Classifier = classify.Disabled{}
	if s.config.Analyzers.Heuristics {
		classifier = classify.Keywords{}
	}

	var analyzers []analyzer.Analyzer
	toggles := s.config.Analyzers
	if toggles.Keyboard {
		analyzers = append(analyzers, analyzer.NewKeyboard())
	}
	if toggles.TabOrder {
		analyzers = append(analyzers, analyzer.NewTabIndex())
	}
	if toggles.AriaState {
		analyzers = append(analyzers, analyzer.NewAriaState())
	}
	if toggles.Focus {
		analyzers = append(analyzers, analyzer.NewFocus())
	}
	if toggles.ContextChange {
		analyzers = append(analyzers, analyzer.NewContextChange())
	}
	if toggles.Timing {
		analyzers = append(analyzers, analyzer.NewTiming(classifier))
	}

	return analyzer.NewEngine(analyzers,
		analyzer.WithMinConfidence(ir.ParseConfidence(s.config.Analysis.MinConfidence)))
}

// BuilderOptions returns the workspace builder options derived from the
// configuration. The scheduler and the analysis entry points share them.
func (s *Service) BuilderOptions() []workspace.BuilderOption {
	a := s.config.Analysis
	return []workspace.BuilderOption{
		workspace.WithMaxFiles(a.MaxFiles),
		workspace.WithIncludePatterns(a.IncludePatterns),
		workspace.WithExcludePatterns(a.ExcludePatterns),
		workspace.WithWorkers(a.Workers),
		workspace.WithReadFile(s.readFile),
	}
}

// parseWithCache parses source through the adapter registry, serving and
// populating the content-hash keyed tree cache.
func (s *Service) parseWithCache(path string, source []byte) ([]*ir.ActionNode, error) {
	hash := cache.HashBytes(source)
	if tree, ok := s.cache.GetTree(path, hash); ok {
		return tree, nil
	}
	tree, err := s.registry.Create(source, path)
	if err != nil {
		return nil, err
	}
	// A failed cache write costs a reparse later, nothing else.
	_ = s.cache.SetTree(path, hash, tree)
	return tree, nil
}

// AnalyzeOptions configures a single-document analysis.
type AnalyzeOptions struct {
	// Mode overrides the configured analysis mode ("file", "smart",
	// "project").
	Mode string
	// Source provides the document content, for unsaved editor buffers.
	// When nil the file is read from disk.
	Source []byte
}

// Analysis is the result of analyzing one document.
type Analysis struct {
	Path     string
	Tree     []*ir.ActionNode
	Snapshot *workspace.Snapshot
	Report   *models.Report
}

// AnalyzeFile analyzes one document. In smart and project modes the
// cross-file reference closure is discovered first; hitting the file
// ceiling degrades confidence rather than failing.
func (s *Service) AnalyzeFile(ctx context.Context, path string, opts AnalyzeOptions) (*Analysis, error) {
	mode := opts.Mode
	if mode == "" {
		mode = s.config.Analysis.Mode
	}

	source := opts.Source
	if source == nil {
		data, err := s.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("service: read %s: %w", path, err)
		}
		source = data
	}

	wctx := workspace.NewContext()
	builder := workspace.NewBuilder(wctx, s.registry, s.BuilderOptions()...)

	tree, err := s.parseWithCache(path, source)
	if err != nil {
		report := models.NewReport(path, 0, []models.Issue{parseFailed(path, err)})
		s.record(path, report.Issues)
		return &Analysis{Path: path, Snapshot: workspace.EmptySnapshot(), Report: report}, nil
	}
	wctx.AddTree(path, tree)

	if mode != "file" {
		if err := builder.Discover(ctx, path); err != nil && !errors.Is(err, workspace.ErrFileCeiling) {
			return nil, err
		}
	}

	snap := wctx.Snapshot()
	issues := s.Engine().Run(path, snap.Tree(path), snap)
	report := models.NewReport(path, 0, issues)
	s.record(path, issues)

	return &Analysis{Path: path, Tree: snap.Tree(path), Snapshot: snap, Report: report}, nil
}

// ProjectOptions configures a project-wide analysis.
type ProjectOptions struct {
	// OnProgress is called once per scanned file as it is parsed.
	OnProgress func()
}

// ProjectAnalysis is the result of analyzing a directory tree.
type ProjectAnalysis struct {
	Root     string
	Files    []string
	Snapshot *workspace.Snapshot
	Report   *models.Report
}

// AnalyzeProject scans a directory, merges every analyzable file into one
// context, and analyzes each file against it.
func (s *Service) AnalyzeProject(ctx context.Context, root string, opts ProjectOptions) (*ProjectAnalysis, error) {
	files, err := scanner.NewScanner(s.config, s.registry).ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("service: scan %s: %w", root, err)
	}

	wctx := workspace.NewContext()
	builder := workspace.NewBuilder(wctx, s.registry, s.BuilderOptions()...)

	var all []models.Issue
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		source, err := s.readFile(file)
		if err != nil {
			wctx.RecordFailure(file, err)
			all = append(all, parseFailed(file, err))
			continue
		}
		tree, err := s.parseWithCache(file, source)
		if err != nil {
			wctx.RecordFailure(file, err)
			all = append(all, parseFailed(file, err))
			continue
		}
		wctx.AddTree(file, tree)
		if opts.OnProgress != nil {
			opts.OnProgress()
		}
	}

	// Close each file's reference closure so completeness is judged per
	// root, not per scan. Most references are already merged; discovery
	// only fills in files the scan configuration skipped.
	for _, file := range files {
		if !wctx.Has(file) {
			continue
		}
		if err := builder.Discover(ctx, file); err != nil && !errors.Is(err, workspace.ErrFileCeiling) {
			return nil, err
		}
	}

	snap := wctx.Snapshot()
	engine := s.Engine()
	for _, file := range files {
		if !wctx.Has(file) {
			continue
		}
		issues := engine.Run(file, snap.Tree(file), snap)
		s.record(file, issues)
		all = append(all, issues...)
	}
	models.SortIssues(all)

	return &ProjectAnalysis{
		Root:     root,
		Files:    files,
		Snapshot: snap,
		Report:   models.NewReport(root, 0, all),
	}, nil
}

// FixOptions configures a fix pass.
type FixOptions struct {
	AnalyzeOptions
	// Fixers overrides the default fixer registry.
	Fixers []fixer.Fixer
	// Language selects the generator for the fixed tree. Empty picks the
	// language of the document's adapter.
	Language string
	// SkipOptimize leaves superseded nodes and duplicate handlers in the
	// fixed tree.
	SkipOptimize bool
}

// FixOutcome is the result of a fix pass over one document.
type FixOutcome struct {
	Analysis *Analysis
	Applied  []fixer.Applied
	Failed   []models.Issue
	// Tree is the fixed (and unless skipped, optimized) tree.
	Tree []*ir.ActionNode
	// Output is the fixed tree rendered by the selected generator, empty
	// when no generator covers the language.
	Output string
	// Remaining re-analyzes the fixed tree in the original context.
	Remaining *models.Report
}

// FixIssues analyzes a document, applies every claimable fix, optimizes
// the result, and re-analyzes it.
func (s *Service) FixIssues(ctx context.Context, path string, opts FixOptions) (*FixOutcome, error) {
	analysis, err := s.AnalyzeFile(ctx, path, opts.AnalyzeOptions)
	if err != nil {
		return nil, err
	}

	fixers := opts.Fixers
	if fixers == nil {
		fixers = fixer.Defaults()
	}
	engine := fixer.NewEngine(fixers)

	result := engine.Apply(analysis.Tree, analysis.Report.Issues)
	tree := result.Tree
	if !opts.SkipOptimize {
		tree = optimizer.New().Optimize(tree, analysis.Snapshot)
	}

	remaining := s.reanalyze(path, tree, analysis.Snapshot)

	outcome := &FixOutcome{
		Analysis:  analysis,
		Applied:   result.Applied,
		Failed:    result.Diagnostics,
		Tree:      tree,
		Remaining: remaining,
	}

	lang := opts.Language
	if lang == "" {
		if a, ok := s.registry.ForPath(path); ok {
			lang = a.Language()
		}
	}
	if gen, ok := s.generators.ForLanguage(lang); ok {
		out, err := gen.Generate(path, tree)
		if err != nil {
			return nil, fmt.Errorf("service: generate %s: %w", path, err)
		}
		outcome.Output = out
	}

	return outcome, nil
}

// reanalyze runs the engine over a replacement root tree inside the
// original context, preserving its completeness and ceiling.
func (s *Service) reanalyze(path string, tree []*ir.ActionNode, snap *workspace.Snapshot) *models.Report {
	wctx := workspace.NewContext()
	wctx.AddTree(path, tree)
	for _, file := range snap.Files() {
		if file != path {
			wctx.AddTree(file, snap.Tree(file))
		}
	}
	if snap.Capped() {
		wctx.SetCapped()
	}
	if snap.IsComplete(path) {
		wctx.SetComplete(path)
	}

	fresh := wctx.Snapshot()
	issues := s.Engine().Run(path, fresh.Tree(path), fresh)
	return models.NewReport(path, 0, issues)
}

// record mirrors issues into the session diagnostics collection, replacing
// the file's previous findings.
func (s *Service) record(path string, issues []models.Issue) {
	_ = s.session.Replace(path, issues)
}

func parseFailed(path string, err error) models.Issue {
	return models.Issue{
		Type:       models.IssueParseFailed,
		Severity:   models.SeverityError,
		Message:    err.Error(),
		Confidence: ir.ConfidenceHigh,
		Location:   ir.Location{File: path},
	}
}
