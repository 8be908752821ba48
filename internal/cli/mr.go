package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mrlens/internal/config"
	"mrlens/internal/gitlab"
)

var (
	flagMRSource       string
	flagMRTarget       string
	flagMRTitle        string
	flagMRDescription  string
	flagMRSquash       bool
	flagMRRemoveSource bool
)

var mrCmd = &cobra.Command{
	Use:   "mr",
	Short: "Manage merge requests",
}

var mrCreateCmd = &cobra.Command{
	Use:   "create <project>",
	Short: "Create a merge request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagMRSource == "" || flagMRTarget == "" || flagMRTitle == "" {
			fmt.Fprintln(os.Stderr, "Error: --source, --target, and --title are required")
			exitCode = ExitUsageError
			return nil
		}

		cfg, err := config.Load(nil)
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

		mr, err := client.CreateMergeRequest(context.Background(), args[0], gitlab.MergeRequestOptions{
			SourceBranch:       flagMRSource,
			TargetBranch:       flagMRTarget,
			Title:              flagMRTitle,
			Description:        flagMRDescription,
			Squash:             flagMRSquash,
			RemoveSourceBranch: flagMRRemoveSource,
		})
		if err != nil {
			if errors.Is(err, gitlab.ErrBranchNotFound) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintln(os.Stderr, "Push the branch first, or check the name with 'mrlens branch list'.")
				exitCode = ExitUsageError
				return nil
			}
			reportError(err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Created !%d: %s\n", mr.IID, mr.Title)
		if mr.WebURL != "" {
			fmt.Fprintln(os.Stdout, mr.WebURL)
		}
		return nil
	},
}

func init() {
	mrCmd.AddCommand(mrCreateCmd)

	mrCreateCmd.Flags().StringVar(&flagMRSource, "source", "", "Source branch")
	mrCreateCmd.Flags().StringVar(&flagMRTarget, "target", "", "Target branch")
	mrCreateCmd.Flags().StringVar(&flagMRTitle, "title", "", "Merge request title")
	mrCreateCmd.Flags().StringVar(&flagMRDescription, "description", "", "Merge request description")
	mrCreateCmd.Flags().BoolVar(&flagMRSquash, "squash", false, "Squash commits on merge")
	mrCreateCmd.Flags().BoolVar(&flagMRRemoveSource, "remove-source", false, "Remove source branch on merge")
}
