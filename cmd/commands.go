package cmd

import (
	"fmt"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/bsrvc/bsr/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newInitCmd(deps *lazyContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare the repository and publish version 0",
		Long: `Create the .bsr hook directories, commit them, push the current branch
and publish version 0. Fails when the remote already carries versions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.run(cmd, func(c *container) error {
				orch := orchestrator.NewInitOrchestrator(c.gitRepo, c.fsRepo, c.lock, c.scheme, c.layout, c.log, cmd.OutOrStdout())
				return orch.Execute(cmd.Context())
			})
		},
	}
}

func newCheckoutCmd(deps *lazyContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout [version]",
		Short: "Check out a published version (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := orchestrator.CheckoutConfig{}
			if len(args) == 1 {
				v, err := domain.ParseVersion(args[0])
				if err != nil {
					return err
				}
				cfg.Version = &v
			}
			return deps.run(cmd, func(c *container) error {
				orch := orchestrator.NewCheckoutOrchestrator(c.gitRepo, c.hooks, c.lock, c.scheme, c.log, cmd.OutOrStdout())
				return orch.Execute(cmd.Context(), cfg)
			})
		},
	}
}

func newVersionsCmd(deps *lazyContainer) *cobra.Command {
	var cfg orchestrator.VersionsConfig
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List published versions with their history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return deps.run(cmd, func(c *container) error {
				orch := orchestrator.NewVersionsOrchestrator(c.gitRepo, c.scheme, c.log, cmd.OutOrStdout())
				return orch.Execute(cmd.Context(), cfg)
			})
		},
	}
	cmd.Flags().IntVarP(&cfg.MaxCount, "max-count", "n", 0, "Commits to show per version (0 shows the full history)")
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", orchestrator.OutputText, "Output format: text, json or yaml")
	return cmd
}

func newPushCmd(deps *lazyContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Commit the working tree and publish it as the next version",
		Long: `Run the pre-push hooks, commit every change and publish the snapshot as
the version after the current one. When publishing fails the repository is
moved back to the previous version with the working tree left intact.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deps.run(cmd, func(c *container) error {
				orch := orchestrator.NewPushOrchestrator(c.gitRepo, c.hooks, c.lock, c.scheme, c.log, cmd.OutOrStdout())
				return orch.Execute(cmd.Context(), orchestrator.PushConfig{TempBranchPrefix: c.cfg.TempBranchPrefix})
			})
		},
	}
}

func newDeleteCmd(deps *lazyContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <version>",
		Short: "Delete every version up to and including the given one",
		Long: `Delete the given version and all older ones from the remote and the local
repository. The latest version can never be deleted.`,
		Args: func(_ *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				return fmt.Errorf("%w: usage: bsr delete <version>", domain.ErrVersionNotSpecified)
			case 1:
				return nil
			default:
				return fmt.Errorf("accepts 1 arg, received %d", len(args))
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := domain.ParseVersion(args[0])
			if err != nil {
				return err
			}
			return deps.run(cmd, func(c *container) error {
				orch := orchestrator.NewDeleteOrchestrator(c.gitRepo, c.lock, c.scheme, c.log, cmd.OutOrStdout())
				return orch.Execute(cmd.Context(), orchestrator.DeleteConfig{Version: v})
			})
		},
	}
}
