package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mrlens/internal/analyzer"
	"mrlens/internal/cache"
	"mrlens/internal/config"
	"mrlens/internal/discovery"
	"mrlens/internal/gitlab"
	"mrlens/internal/output"
	"mrlens/internal/prompt"
	"mrlens/internal/providers"
	"mrlens/internal/review"
)

// Shared review flags
var (
	flagProvider     string
	flagModel        string
	flagFormat       string
	flagOut          string
	flagDepth        string
	flagFocus        string
	flagRef          string
	flagMaxFiles     int
	flagBatchSize    int
	flagMaxDiffBytes int
	flagRules        string
	flagExclude      string
	flagNoRedact     bool
	flagNoCache      bool
	flagPost         bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFocus, "focus", "", "Review focus (comprehensive, security, performance, quality, architecture)")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the response cache")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagDepth != "" {
		m["depth"] = flagDepth
	}
	if flagFocus != "" {
		m["focus"] = flagFocus
	}
	if flagMaxFiles > 0 {
		m["maxFiles"] = fmt.Sprintf("%d", flagMaxFiles)
	}
	if flagBatchSize > 0 {
		m["batchSize"] = fmt.Sprintf("%d", flagBatchSize)
	}
	if flagMaxDiffBytes > 0 {
		m["maxDiffBytes"] = fmt.Sprintf("%d", flagMaxDiffBytes)
	}
	if flagRules != "" {
		m["rulesFile"] = flagRules
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// newEngine wires provider, cache, and redaction settings into a review
// engine.
func newEngine(cfg config.Config, logger *zap.Logger) (*review.Engine, error) {
	gen, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, err
	}

	cacheEnabled := cfg.Cache.Enabled && !flagNoCache
	c, err := cache.New(cacheEnabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	redactSecrets := cfg.Privacy.RedactSecrets
	if flagNoRedact {
		redactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	return review.NewEngine(gen, review.EngineOptions{
		Model:         cfg.Model,
		Cache:         c,
		Logger:        logger,
		RedactSecrets: redactSecrets,
		RedactPaths:   cfg.Privacy.RedactPaths,
		MaxDiffBytes:  cfg.MaxDiffBytes,
	}), nil
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	switch {
	case gitlab.IsAuthError(err) || providers.IsAuthError(err):
		exitCode = ExitAuthError
	default:
		exitCode = ExitRuntimeError
	}
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "AI-review a merge request or a repository",
}

var reviewMRCmd = &cobra.Command{
	Use:   "mr <project> <iid>",
	Short: "Review a merge request by project and IID",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		iid, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: merge request IID must be a number, got %q\n", args[1])
			exitCode = ExitUsageError
			return nil
		}

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		logger := newLogger()
		defer logger.Sync()

		client, err := newGitLabClient(cfg, logger)
		if err != nil {
			reportError(err)
			return nil
		}

		ctx := context.Background()
		runMRReview(ctx, client, cfg, logger, args[0], iid)
		return nil
	},
}

func runMRReview(ctx context.Context, client *gitlab.Client, cfg config.Config, logger *zap.Logger, projectRef string, iid int) {
	// Auth failures here come back as typed errors instead of firing the
	// client's failure handler, so the exit code can be set precisely.
	if _, err := client.GetProject(ctx, projectRef, gitlab.PropagateAuthError()); err != nil {
		reportError(err)
		return
	}

	mr, err := client.GetMergeRequest(ctx, projectRef, iid)
	if err != nil {
		reportError(err)
		return
	}

	diff, err := client.GetMergeRequestDiff(ctx, projectRef, iid)
	if err != nil {
		reportError(err)
		return
	}

	eng, err := newEngine(cfg, logger)
	if err != nil {
		reportError(err)
		return
	}

	res, err := eng.ReviewMergeRequest(ctx, review.MergeRequestChange{
		Title:        mr.Title,
		Description:  mr.Description,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		Diff:         diff,
	}, prompt.Focus(cfg.Focus))
	if err != nil {
		reportError(err)
		return
	}

	if err := output.WriteResult(res, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if flagPost {
		note, err := renderNote(res)
		if err != nil {
			reportError(err)
			return
		}
		if _, err := client.PostNote(ctx, projectRef, iid, note); err != nil {
			reportError(err)
			return
		}
		fmt.Fprintln(os.Stderr, "Review posted as a merge request note.")
	}
}

// renderNote formats the result as markdown for posting.
func renderNote(res *review.Result) (string, error) {
	var b strings.Builder
	if err := (&output.MarkdownWriter{}).Write(&b, res); err != nil {
		return "", fmt.Errorf("rendering note: %w", err)
	}
	return b.String(), nil
}

var reviewRepoCmd = &cobra.Command{
	Use:   "repo <project>",
	Short: "Review a whole repository snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		depth := prompt.Depth(cfg.Depth)
		if !depth.Valid() {
			fmt.Fprintf(os.Stderr, "Error: unknown depth %q (quick, standard, deep)\n", cfg.Depth)
			exitCode = ExitUsageError
			return nil
		}

		logger := newLogger()
		defer logger.Sync()

		client, err := newGitLabClient(cfg, logger)
		if err != nil {
			reportError(err)
			return nil
		}

		ctx := context.Background()

		a, err := buildAnalyzer(client, cfg, logger)
		if err != nil {
			reportError(err)
			return nil
		}
		analysis, err := a.Analyze(ctx, args[0], flagRef)
		if err != nil {
			reportError(err)
			return nil
		}

		eng, err := newEngine(cfg, logger)
		if err != nil {
			reportError(err)
			return nil
		}
		res, err := eng.ReviewRepository(ctx, analysis, depth, prompt.Focus(cfg.Focus))
		if err != nil {
			reportError(err)
			return nil
		}

		if err := output.WriteResult(res, cfg.Format, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

// buildAnalyzer assembles the file-discovery pipeline from config and flags,
// loading an optional rule pack for custom scoring.
func buildAnalyzer(client *gitlab.Client, cfg config.Config, logger *zap.Logger) (*analyzer.Analyzer, error) {
	opts := analyzer.Options{
		MaxFiles:  cfg.MaxFiles,
		BatchSize: cfg.BatchSize,
	}
	opts.Filter.MaxFileSize = cfg.MaxFileBytes
	opts.Filter.IncludeConfig = cfg.IncludeConfig
	opts.Filter.IncludeDocs = cfg.IncludeDocs
	opts.Filter.ExcludePaths = cfg.ExcludePaths
	if flagExclude != "" {
		opts.Filter.ExcludePaths = append(opts.Filter.ExcludePaths, splitComma(flagExclude)...)
	}

	if cfg.RulesFile != "" {
		pack, err := discovery.LoadRulePack(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		prio, err := pack.PriorityOptions()
		if err != nil {
			return nil, fmt.Errorf("compiling rules from %s: %w", cfg.RulesFile, err)
		}
		opts.Priority = prio
		pack.ApplyTo(&opts.Filter)
	}

	if flagVerbose {
		opts.OnProgress = func(p analyzer.Progress) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", p.Phase, p.Message)
		}
	}

	return analyzer.New(client, logger, opts), nil
}

func init() {
	reviewCmd.AddCommand(reviewMRCmd)
	reviewCmd.AddCommand(reviewRepoCmd)

	addReviewFlags(reviewMRCmd)
	addReviewFlags(reviewRepoCmd)

	reviewMRCmd.Flags().IntVar(&flagMaxDiffBytes, "max-diff-bytes", 0, "Diff budget in bytes for the prompt")
	reviewMRCmd.Flags().BoolVar(&flagPost, "post", false, "Post the review as a merge request note")

	reviewRepoCmd.Flags().StringVar(&flagRef, "ref", "", "Branch or tag to analyze (default: project default branch)")
	reviewRepoCmd.Flags().StringVar(&flagDepth, "depth", "", "Analysis depth (quick, standard, deep)")
	reviewRepoCmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "Maximum files to analyze")
	reviewRepoCmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "Concurrent content fetches per batch")
	reviewRepoCmd.Flags().StringVar(&flagRules, "rules", "", "YAML rule pack for file scoring")
	reviewRepoCmd.Flags().StringVar(&flagExclude, "exclude", "", "Extra path exclusions (comma-separated substrings)")
}
