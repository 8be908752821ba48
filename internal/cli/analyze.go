package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"mrlens/internal/analyzer"
	"mrlens/internal/config"
)

var (
	flagAnalyzeJSON   bool
	flagIncludeConfig bool
	flagIncludeDocs   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <project>",
	Short: "Analyze repository structure without running a review",
	Long: "Walk the repository tree, filter and prioritize files, fetch the\n" +
		"selected subset, and report the structural summary.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		if flagIncludeConfig {
			cfg.IncludeConfig = true
		}
		if flagIncludeDocs {
			cfg.IncludeDocs = true
		}

		logger := newLogger()
		defer logger.Sync()

		client, err := newGitLabClient(cfg, logger)
		if err != nil {
			reportError(err)
			return nil
		}

		a, err := buildAnalyzer(client, cfg, logger)
		if err != nil {
			reportError(err)
			return nil
		}

		res, err := a.Analyze(context.Background(), args[0], flagRef)
		if err != nil {
			reportError(err)
			return nil
		}

		if flagAnalyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		printAnalysis(res)
		return nil
	},
}

func printAnalysis(res *analyzer.Result) {
	fmt.Fprintf(os.Stdout, "Project: %s (ref %s)\n", res.Project.PathWithNamespace, res.Ref)
	if len(res.Languages) > 0 {
		var langs []string
		for name := range res.Languages {
			langs = append(langs, name)
		}
		sort.Slice(langs, func(i, j int) bool {
			if res.Languages[langs[i]] != res.Languages[langs[j]] {
				return res.Languages[langs[i]] > res.Languages[langs[j]]
			}
			return langs[i] < langs[j]
		})
		var parts []string
		for _, name := range langs {
			parts = append(parts, fmt.Sprintf("%s %.1f%%", name, res.Languages[name]))
		}
		fmt.Fprintf(os.Stdout, "Languages: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(os.Stdout, "Tree entries: %d | Candidates: %d | Selected: %d\n",
		res.TotalFiles, res.FilteredCount, res.SelectedCount)

	fmt.Fprintln(os.Stdout, "\nSelected files (by priority):")
	for _, f := range res.Files {
		status := ""
		if !f.Fetched {
			status = "  [fetch failed]"
		}
		fmt.Fprintf(os.Stdout, "  %4d  %s%s\n", f.Priority, f.Path, status)
	}

	s := res.Structure
	fmt.Fprintf(os.Stdout, "\nStructure: %d files, %d lines, max depth %d\n",
		s.TotalFiles, s.TotalLines, s.MaxDepth)
	if len(s.Largest) > 0 {
		fmt.Fprintln(os.Stdout, "Largest files:")
		for _, fs := range s.Largest {
			fmt.Fprintf(os.Stdout, "  %8d  %s\n", fs.Size, fs.Path)
		}
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&flagRef, "ref", "", "Branch or tag to analyze (default: project default branch)")
	analyzeCmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "Maximum files to select")
	analyzeCmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "Concurrent content fetches per batch")
	analyzeCmd.Flags().StringVar(&flagRules, "rules", "", "YAML rule pack for file scoring")
	analyzeCmd.Flags().StringVar(&flagExclude, "exclude", "", "Extra path exclusions (comma-separated substrings)")
	analyzeCmd.Flags().BoolVar(&flagIncludeConfig, "include-config", false, "Include configuration files")
	analyzeCmd.Flags().BoolVar(&flagIncludeDocs, "include-docs", false, "Include documentation files")
	analyzeCmd.Flags().BoolVar(&flagAnalyzeJSON, "json", false, "Emit the full analysis as JSON")
}
