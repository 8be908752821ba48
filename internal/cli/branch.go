package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mrlens/internal/config"
)

var (
	flagBranchSearch string
	flagBranchRef    string
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage repository branches",
}

var branchListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List branches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		branches, err := client.GetBranches(context.Background(), args[0], flagBranchSearch)
		if err != nil {
			reportError(err)
			return nil
		}

		for _, b := range branches {
			markers := ""
			if b.Default {
				markers += " (default)"
			}
			if b.Protected {
				markers += " [protected]"
			}
			if b.Merged {
				markers += " [merged]"
			}
			fmt.Fprintf(os.Stdout, "%s%s\n", b.Name, markers)
		}
		return nil
	},
}

var branchCreateCmd = &cobra.Command{
	Use:   "create <project> <name>",
	Short: "Create a branch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagBranchRef == "" {
			fmt.Fprintln(os.Stderr, "Error: --ref is required")
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

		b, err := client.CreateBranch(context.Background(), args[0], args[1], flagBranchRef)
		if err != nil {
			reportError(err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Created branch %s\n", b.Name)
		return nil
	},
}

func init() {
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchCreateCmd)

	branchListCmd.Flags().StringVar(&flagBranchSearch, "search", "", "Filter branches by search term")
	branchCreateCmd.Flags().StringVar(&flagBranchRef, "ref", "", "Ref to branch from")
}
