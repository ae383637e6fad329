package commands

import (
	"context"
	"fmt"

	"github.com/0x5457/codesearch/cmd/cmdsfx"
	"github.com/0x5457/codesearch/internal/app/appfx"
	"github.com/0x5457/codesearch/internal/models"
	"github.com/spf13/cobra"
)

func NewSearchCommand(values *appfx.Values) *cobra.Command {
	var (
		file   string
		line   int
		column int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Index the workspace and run a hybrid search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sctx *models.SearchContext
			if file != "" {
				sctx = &models.SearchContext{
					CurrentFile: file,
					Cursor:      models.Position{Line: line, Column: column},
				}
			}
			return runWithApp(cmd.Context(), *values, func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunSearch(ctx, args[0], sctx)
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "current file as a workspace path, e.g. /src/app.ts")
	cmd.Flags().IntVar(&line, "line", 1, "cursor line (1-based)")
	cmd.Flags().IntVar(&column, "column", 1, "cursor column (1-based)")

	return cmd
}

func NewSuggestCommand(values *appfx.Values) *cobra.Command {
	var (
		file   string
		line   int
		column int
		text   string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest code related to the line under the cursor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			sctx := models.SearchContext{
				CurrentFile: file,
				Cursor:      models.Position{Line: line, Column: column},
				CurrentLine: text,
			}
			return runWithApp(cmd.Context(), *values, func(ctx context.Context, r *cmdsfx.CommandRunner) error {
				return r.RunSuggest(ctx, sctx)
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "current file as a workspace path, e.g. /src/app.ts")
	cmd.Flags().IntVar(&line, "line", 1, "cursor line (1-based)")
	cmd.Flags().IntVar(&column, "column", 1, "cursor column (1-based)")
	cmd.Flags().StringVar(&text, "text", "", "text of the cursor line")

	return cmd
}
