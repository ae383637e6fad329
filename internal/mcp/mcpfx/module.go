package mcpfx

import (
	"context"
	"sync"

	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/0x5457/codesearch/internal/indexer"
	appmcp "github.com/0x5457/codesearch/internal/mcp"
	"github.com/0x5457/codesearch/internal/workspace"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Params represents dependencies for MCP server
type Params struct {
	fx.In

	Indexer indexer.Indexer
	Tree    workspace.TreeProvider
	Config  *configfx.Config
	Logger  zerolog.Logger
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(params Params) *server.MCPServer {
	return appmcp.New(params.Indexer, params.Tree, appmcp.ServerOptions{
		SnapshotPath: params.Config.SnapshotPath,
		Logger:       &params.Logger,
	})
}

// Lifecycle indexes the workspace in the background once the server starts
type Lifecycle struct {
	indexer indexer.Indexer
	tree    workspace.TreeProvider
	log     zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLifecycle creates a new MCP lifecycle manager
func NewLifecycle(params Params) *Lifecycle {
	return &Lifecycle{
		indexer: params.Indexer,
		tree:    params.Tree,
		log:     params.Logger,
	}
}

// Start kicks off the initial indexing run
func (m *Lifecycle) Start(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		tree, err := m.tree.FileTree(ctx)
		if err != nil {
			m.log.Error().Err(err).Msg("read workspace failed")
			return
		}
		if err := m.indexer.IndexWorkspace(ctx, tree, nil); err != nil {
			m.log.Error().Err(err).Msg("initial indexing failed")
		}
	}()
	return nil
}

// Stop waits for the initial run to finish
func (m *Lifecycle) Stop(context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	return nil
}

// Module provides MCP server components
var Module = fx.Module("mcp",
	fx.Provide(
		NewMCPServer,
		NewLifecycle,
	),
)
