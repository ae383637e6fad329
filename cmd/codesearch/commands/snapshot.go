package commands

import (
	"context"

	"github.com/0x5457/codesearch/cmd/cmdsfx"
	"github.com/0x5457/codesearch/internal/app/appfx"
	"github.com/spf13/cobra"
)

// NewSnapshotCommand groups read-only queries against an exported snapshot.
func NewSnapshotCommand(values *appfx.Values) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect an exported SQLite snapshot",
	}
	cmd.PersistentFlags().StringVarP(&db, "db", "d", "", "SQLite snapshot path")
	_ = cmd.MarkPersistentFlagRequired("db")

	symbolCmd := &cobra.Command{
		Use:   "symbol [name]",
		Short: "Find chunks declaring a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd.Context(), *values, func(_ context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunSnapshotSymbol(db, args[0])
			})
		},
	}

	var topK int
	nearestCmd := &cobra.Command{
		Use:   "nearest [query]",
		Short: "Find the chunks whose embeddings are closest to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd.Context(), *values, func(_ context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunSnapshotNearest(db, args[0], topK)
			})
		},
	}
	nearestCmd.Flags().IntVar(&topK, "top-k", 5, "number of neighbours")

	cmd.AddCommand(symbolCmd, nearestCmd)
	return cmd
}
