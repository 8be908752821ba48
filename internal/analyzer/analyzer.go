package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mrlens/internal/discovery"
	"mrlens/internal/gitlab"
)

// Phase identifies the stage an analysis run is in.
type Phase string

const (
	PhaseDiscovery Phase = "discovery"
	PhaseFiltering Phase = "filtering"
	PhaseFetching  Phase = "fetching"
	PhaseDone      Phase = "done"
)

// Progress is a point-in-time report of a running analysis.
type Progress struct {
	Phase   Phase
	Message string
	Current int
	Total   int
}

// ProgressFunc receives progress updates during Analyze. It is called from
// the goroutine running Analyze.
type ProgressFunc func(Progress)

const (
	// DefaultMaxFiles caps how many files are fetched for analysis.
	DefaultMaxFiles = 20
	// DefaultBatchSize is the concurrency used for content fetches.
	DefaultBatchSize = 10
)

// Options configures an analysis run. Zero values take the defaults above,
// discovery's default filter ceiling, and the built-in priority rules.
type Options struct {
	MaxFiles   int
	BatchSize  int
	BatchDelay time.Duration
	Filter     discovery.FilterOptions
	Priority   discovery.PriorityOptions
	OnProgress ProgressFunc
}

// Analyzer runs repository analysis against one GitLab instance.
type Analyzer struct {
	client *gitlab.Client
	logger *zap.Logger
	opts   Options
}

// New creates an Analyzer. A nil logger is replaced with a no-op one.
func New(client *gitlab.Client, logger *zap.Logger, opts Options) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Priority.NameRules == nil {
		opts.Priority.NameRules = discovery.DefaultNameRules()
	}
	if opts.Priority.PathRules == nil {
		opts.Priority.PathRules = discovery.DefaultPathRules()
	}
	return &Analyzer{client: client, logger: logger, opts: opts}
}

// Result is the outcome of one analysis run.
type Result struct {
	ID            string                   `json:"id"`
	Project       *gitlab.Project          `json:"project"`
	Ref           string                   `json:"ref"`
	Languages     map[string]float64       `json:"languages"`
	TotalFiles    int                      `json:"totalFiles"`
	FilteredCount int                      `json:"filteredCount"`
	SelectedCount int                      `json:"selectedCount"`
	Files         []discovery.SelectedFile `json:"files"`
	Structure     discovery.Structure      `json:"structure"`
	GeneratedAt   time.Time                `json:"generatedAt"`
}

// Analyze runs the full pipeline for projectRef at ref. An empty ref means
// the project's default branch.
func (a *Analyzer) Analyze(ctx context.Context, projectRef, ref string) (*Result, error) {
	a.progress(Progress{Phase: PhaseDiscovery, Message: "resolving project"})

	var (
		project   *gitlab.Project
		languages map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.client.GetProject(gctx, projectRef)
		if err != nil {
			return fmt.Errorf("resolving project %q: %w", projectRef, err)
		}
		project = p
		return nil
	})
	g.Go(func() error {
		langs, err := a.client.GetLanguages(gctx, projectRef)
		if err != nil {
			// Language stats only influence scoring; analysis proceeds
			// without them.
			a.logger.Warn("fetching language statistics failed", zap.Error(err))
			return nil
		}
		languages = langs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if ref == "" {
		ref = project.DefaultBranch
	}

	a.progress(Progress{Phase: PhaseDiscovery, Message: "listing repository tree"})
	tree, err := a.client.ListTree(ctx, projectRef, ref, true)
	if err != nil {
		return nil, fmt.Errorf("listing tree for %q at %q: %w", projectRef, ref, err)
	}

	candidates := make([]discovery.FileCandidate, 0, len(tree))
	for _, entry := range tree {
		candidates = append(candidates, discovery.FileCandidate{
			Path: entry.Path,
			Type: entry.Type,
		})
	}

	a.progress(Progress{Phase: PhaseFiltering, Message: "filtering and prioritizing", Total: len(candidates)})
	filtered := discovery.FilterFiles(candidates, a.opts.Filter)
	prioritized := discovery.PrioritizeFiles(filtered, languages, a.opts.Priority)
	selected := discovery.SelectFiles(prioritized, a.opts.MaxFiles)

	a.logger.Info("file selection complete",
		zap.Int("tree", len(tree)),
		zap.Int("filtered", len(filtered)),
		zap.Int("selected", len(selected)),
	)

	a.progress(Progress{Phase: PhaseFetching, Message: "fetching file content", Total: len(selected)})
	results, err := gitlab.FetchBatch(ctx, selected,
		func(ctx context.Context, f discovery.ScoredFile) (string, error) {
			return a.client.GetFileContent(ctx, projectRef, f.Path, ref)
		},
		gitlab.BatchOptions{Size: a.opts.BatchSize, Delay: a.opts.BatchDelay},
	)
	if err != nil {
		return nil, err
	}

	files := make([]discovery.SelectedFile, 0, len(results))
	for _, r := range results {
		sf := discovery.SelectedFile{ScoredFile: r.Item}
		if r.Err != nil {
			sf.FetchError = r.Err.Error()
			a.logger.Warn("file fetch failed", zap.String("path", r.Item.Path), zap.Error(r.Err))
		} else {
			sf.Content = r.Value
			sf.Fetched = true
		}
		files = append(files, sf)
	}

	a.progress(Progress{Phase: PhaseDone, Message: "analysis complete", Current: len(files), Total: len(files)})

	return &Result{
		ID:            uuid.NewString(),
		Project:       project,
		Ref:           ref,
		Languages:     languages,
		TotalFiles:    len(tree),
		FilteredCount: len(filtered),
		SelectedCount: len(selected),
		Files:         files,
		Structure:     discovery.AnalyzeStructure(files),
		GeneratedAt:   time.Now(),
	}, nil
}

func (a *Analyzer) progress(p Progress) {
	if a.opts.OnProgress != nil {
		a.opts.OnProgress(p)
	}
}
