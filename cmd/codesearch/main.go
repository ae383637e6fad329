package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0x5457/codesearch/cmd/codesearch/commands"
	"github.com/0x5457/codesearch/internal/app/appfx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	var values appfx.Values
	rootCmd := &cobra.Command{
		Use:           "codesearch",
		Short:         "Index a codebase and run hybrid code search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&values.ConfigPath, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVarP(&values.Workspace, "workspace", "w", "", "workspace root (default from config, \".\")")

	rootCmd.AddCommand(
		commands.NewIndexCommand(&values),
		commands.NewSearchCommand(&values),
		commands.NewSuggestCommand(&values),
		commands.NewMCPServeCommand(&values),
		commands.NewSnapshotCommand(&values),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
