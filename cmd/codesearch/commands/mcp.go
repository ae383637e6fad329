package commands

import (
	"context"
	"fmt"

	"github.com/0x5457/codesearch/cmd/cmdsfx"
	"github.com/0x5457/codesearch/internal/app/appfx"
	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// NewMCPServeCommand starts an MCP server over the indexed workspace.
func NewMCPServeCommand(values *appfx.Values) *cobra.Command {
	var (
		snapshot  string
		transport string
		address   string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run MCP server",
		Long:  "Run MCP server; the workspace is indexed in the background on startup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := *values
			v.SnapshotPath = snapshot

			var (
				runner *cmdsfx.CommandRunner
				config *configfx.Config
			)
			app := appfx.NewMCPApp(v, fx.Populate(&runner, &config))
			if err := app.Err(); err != nil {
				return err
			}
			if err := app.Start(cmd.Context()); err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
				defer cancel()
				_ = app.Stop(ctx)
			}()

			if transport == "" {
				transport = config.MCP.Transport
			}
			if address == "" {
				address = config.MCP.Address
			}
			return runner.RunMCPServer(transport, address)
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "default SQLite snapshot for snapshot_symbol")
	cmd.Flags().StringVarP(&transport, "transport", "t", "", "transport (stdio, http, sse); default from config")
	cmd.Flags().StringVarP(&address, "address", "a", "", "server address (http modes), e.g. :8080")

	return cmd
}
