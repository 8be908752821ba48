package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"go.uber.org/zap"

	"mrlens/internal/analyzer"
	"mrlens/internal/cache"
	"mrlens/internal/parser"
	"mrlens/internal/prompt"
	"mrlens/internal/providers"
	"mrlens/internal/redact"
)

// Engine drives the prompt -> provider -> parser pipeline.
type Engine struct {
	gen    providers.Generator
	model  string
	cache  *cache.Cache
	logger *zap.Logger

	redactSecrets bool
	redactPaths   []string
	maxDiffBytes  int
}

// EngineOptions configures an Engine. The zero value disables caching and
// redaction and uses the default diff budget.
type EngineOptions struct {
	Model         string
	Cache         *cache.Cache
	Logger        *zap.Logger
	RedactSecrets bool
	RedactPaths   []string
	MaxDiffBytes  int
}

// NewEngine creates an Engine around a generator.
func NewEngine(gen providers.Generator, opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		gen:           gen,
		model:         opts.Model,
		cache:         opts.Cache,
		logger:        logger,
		redactSecrets: opts.RedactSecrets,
		redactPaths:   opts.RedactPaths,
		maxDiffBytes:  opts.MaxDiffBytes,
	}
}

// MergeRequestChange is the input to a single-change review.
type MergeRequestChange struct {
	Title        string
	Description  string
	SourceBranch string
	TargetBranch string
	Diff         string
}

// ReviewMergeRequest reviews one change. The reply is parsed into the six
// merge-request sections; sections the parser cannot match stay empty, and a
// terse summary is derived from the quality, security, and performance
// bodies.
func (e *Engine) ReviewMergeRequest(ctx context.Context, change MergeRequestChange, focus prompt.Focus) (*Result, error) {
	diff := change.Diff
	if e.redactSecrets {
		diff = redact.Secrets(diff)
	}

	in := prompt.MergeRequestInput{
		Title:        change.Title,
		Description:  change.Description,
		SourceBranch: change.SourceBranch,
		TargetBranch: change.TargetBranch,
		Diff:         diff,
		MaxDiffBytes: e.maxDiffBytes,
	}
	in.ChangedFiles, in.Additions, in.Deletions = diffStats(diff)

	p := prompt.BuildMergeRequestPrompt(in, focus, MergeRequestSections)

	raw, tokens, err := e.generate(ctx, p)
	if err != nil {
		return nil, err
	}

	cleaned := parser.StripFence(raw)
	sections := parser.ExtractSections(cleaned, MergeRequestSections, parser.Options{})

	return &Result{
		Kind:     KindMergeRequest,
		Sections: sections,
		FullText: cleaned,
		Summary: parser.Summarize(
			sections[SectionCodeQuality],
			sections[SectionSecurity],
			sections[SectionPerformance],
		),
		Metadata: Metadata{
			FilesAnalyzed: in.ChangedFiles,
			Focus:         string(focus),
			Provider:      e.gen.Name(),
			Model:         e.model,
			TokensUsed:    tokens,
			GeneratedAt:   time.Now(),
		},
	}, nil
}

// ReviewRepository reviews a repository snapshot produced by the analyzer.
// The reply is parsed into the eight repository sections; sections the
// parser cannot match resolve to NoContentPlaceholder.
func (e *Engine) ReviewRepository(ctx context.Context, a *analyzer.Result, depth prompt.Depth, focus prompt.Focus) (*Result, error) {
	in := prompt.RepositoryInput{
		ProjectName: a.Project.PathWithNamespace,
		Ref:         a.Ref,
		Languages:   a.Languages,
	}
	for _, f := range a.Files {
		if !f.Fetched {
			continue
		}
		content := f.Content
		if e.redactSecrets {
			content = redact.Content(content, f.Path, e.redactPaths)
		}
		in.Files = append(in.Files, prompt.FileContent{Path: f.Path, Content: content})
	}

	p := prompt.BuildRepositoryPrompt(in, depth, focus, RepositorySections)

	raw, tokens, err := e.generate(ctx, p)
	if err != nil {
		return nil, err
	}

	cleaned := parser.StripFence(raw)
	sections := parser.ExtractSections(cleaned, RepositorySections, parser.Options{
		MissingPlaceholder: NoContentPlaceholder,
	})

	return &Result{
		Kind:     KindRepository,
		Sections: sections,
		FullText: cleaned,
		Metadata: Metadata{
			FilesAnalyzed: len(in.Files),
			Focus:         string(focus),
			Depth:         string(depth),
			Provider:      e.gen.Name(),
			Model:         e.model,
			TokensUsed:    tokens,
			GeneratedAt:   time.Now(),
		},
	}, nil
}

// generate sends the prompt, consulting the response cache first.
func (e *Engine) generate(ctx context.Context, p string) (string, int, error) {
	key := cache.BuildCacheKey(e.gen.Name(), e.model, p)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.logger.Debug("review response served from cache")
			return cached, 0, nil
		}
	}

	resp, err := e.gen.Generate(ctx, providers.Request{Prompt: p})
	if err != nil {
		return "", 0, fmt.Errorf("generating review: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Put(key, resp.Content); err != nil {
			e.logger.Warn("caching review response failed", zap.Error(err))
		}
	}
	return resp.Content, resp.TokensUsed, nil
}

// diffStats derives changed-file and line counts from a unified diff.
// Best-effort: an unparseable diff yields zeros.
func diffStats(diff string) (files, additions, deletions int) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err != nil {
		return 0, 0, 0
	}
	for _, f := range parsed {
		files++
		for _, frag := range f.TextFragments {
			additions += int(frag.LinesAdded)
			deletions += int(frag.LinesDeleted)
		}
	}
	return files, additions, deletions
}
