package commands

import (
	"context"
	"fmt"

	"github.com/0x5457/codesearch/cmd/cmdsfx"
	"github.com/0x5457/codesearch/internal/app/appfx"
	"go.uber.org/fx"
)

// runWithApp starts the application graph, hands the runner to fn and stops
// the graph again.
func runWithApp(
	ctx context.Context,
	v appfx.Values,
	fn func(context.Context, *cmdsfx.CommandRunner) error,
) error {
	var runner *cmdsfx.CommandRunner
	app := appfx.NewApp(v, fx.Populate(&runner))
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	runErr := fn(ctx, runner)

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return runErr
}
