package commands

import (
	"context"

	"github.com/0x5457/codesearch/cmd/cmdsfx"
	"github.com/0x5457/codesearch/internal/app/appfx"
	"github.com/spf13/cobra"
)

func NewIndexCommand(values *appfx.Values) *cobra.Command {
	var (
		snapshot string
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index the workspace and optionally export a SQLite snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := *values
			v.SnapshotPath = snapshot
			return runWithApp(cmd.Context(), v, func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunIndex(ctx, !quiet)
			})
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "write chunks and embeddings to this SQLite file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress")

	return cmd
}
