package cmd

import (
	"context"

	"github.com/bsrvc/bsr/internal/domain"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	configFile string
}

// NewRootCmd builds the bsr command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	deps := &lazyContainer{opts: opts}
	rootCmd := &cobra.Command{
		Use:   "bsr",
		Short: "Keep a linear version history on top of a git repository",
		Long: `bsr publishes snapshots of a git working tree as consecutively numbered
versions. Version N is the tag <namespace>/v<N> on the remote; hook scripts
under .bsr/hook run before a push and after a checkout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return domain.ErrCommandNotSpecified
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default: .bsr.yaml in the working directory)")
	rootCmd.AddCommand(
		newInitCmd(deps),
		newCheckoutCmd(deps),
		newVersionsCmd(deps),
		newPushCmd(deps),
		newDeleteCmd(deps),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
