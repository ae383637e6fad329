package appfx

import (
	"github.com/0x5457/codesearch/cmd/cmdsfx"
	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/0x5457/codesearch/internal/embeddings/embeddingsfx"
	"github.com/0x5457/codesearch/internal/indexer/indexerfx"
	"github.com/0x5457/codesearch/internal/logging"
	"github.com/0x5457/codesearch/internal/mcp/mcpfx"
	"github.com/0x5457/codesearch/internal/parser/parserfx"
	"github.com/0x5457/codesearch/internal/search/searchfx"
	"github.com/0x5457/codesearch/internal/storage/storagefx"
	"github.com/0x5457/codesearch/internal/workspace/workspacefx"
	"go.uber.org/fx"
)

// Module combines all application modules
var Module = fx.Options(
	configfx.Module,
	logging.Module,
	workspacefx.Module,
	parserfx.Module,
	embeddingsfx.Module,
	storagefx.Module,
	searchfx.Module,
	indexerfx.Module,
	mcpfx.Module,
	cmdsfx.Module,
)

// Values are the command-line overrides fed into configuration.
type Values struct {
	ConfigPath   string
	Workspace    string
	SnapshotPath string
}

func (v Values) supply() fx.Option {
	return fx.Supply(
		fx.Annotate(v.ConfigPath, fx.ResultTags(`name:"configPath"`)),
		fx.Annotate(v.Workspace, fx.ResultTags(`name:"workspace"`)),
		fx.Annotate(v.SnapshotPath, fx.ResultTags(`name:"snapshotPath"`)),
	)
}

// NewApp creates an Fx app with the given overrides. Extra options are
// appended, typically fx.Populate targets.
func NewApp(v Values, opts ...fx.Option) *fx.App {
	return fx.New(append([]fx.Option{Module, fx.NopLogger, v.supply()}, opts...)...)
}

// NewMCPApp is NewApp with the MCP lifecycle hooks registered, so the
// workspace is indexed once the app starts.
func NewMCPApp(v Values, opts ...fx.Option) *fx.App {
	opts = append(opts, fx.Invoke(func(lc fx.Lifecycle, mcpLifecycle *mcpfx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: mcpLifecycle.Start,
			OnStop:  mcpLifecycle.Stop,
		})
	}))
	return NewApp(v, opts...)
}
