package cli

import (
	"github.com/spf13/cobra"

	"machete.dev/machete/internal/cli/common"
	"machete.dev/machete/internal/runtime"
)

// newFetchCmd creates the fetch command
func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch all remotes so status compares against fresh remote-tracking branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				remotes, err := ctx.Repo.Remotes(ctx)
				if err != nil {
					return err
				}
				if len(remotes) == 0 {
					ctx.Splog.Info("No remotes to fetch.")
					return nil
				}
				ctx.Splog.Debug("fetching %v", remotes)
				if err := ctx.Repo.FetchAll(ctx); err != nil {
					return err
				}
				ctx.Splog.Info("Fetched %d remote(s).", len(remotes))
				return nil
			})
		},
	}
}
