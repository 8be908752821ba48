package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mrlens/internal/config"
	"mrlens/internal/gitlab"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "mrlens",
	Short: "GitLab repository analysis and AI review",
	Long: "mrlens analyzes GitLab repositories and merge requests and produces\n" +
		"structured AI reviews. It talks to the GitLab API for project data and\n" +
		"to an LLM provider for the review itself.",
}

var flagVerbose bool

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(mrCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print mrlens version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "mrlens version %s\n", version)
	},
}

// newLogger builds the process logger. Debug level with --verbose, warnings
// and up otherwise so normal output stays clean.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Encoding = "console"
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// gitlabToken reads the API token from the environment. The token is never
// persisted in the config file.
func gitlabToken() (string, error) {
	token := os.Getenv("GITLAB_TOKEN")
	if token == "" {
		return "", fmt.Errorf("GITLAB_TOKEN is not set")
	}
	return token, nil
}

// newGitLabClient builds the API client from the effective config.
func newGitLabClient(cfg config.Config, logger *zap.Logger) (*gitlab.Client, error) {
	token, err := gitlabToken()
	if err != nil {
		return nil, err
	}
	return gitlab.NewClient(cfg.GitLabURL, token,
		gitlab.WithLogger(logger),
		gitlab.WithAuthFailureHandler(func() {
			fmt.Fprintln(os.Stderr, "Authentication failed: check GITLAB_TOKEN")
		}),
	)
}
