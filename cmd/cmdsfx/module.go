package cmdsfx

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/0x5457/codesearch/internal/indexer"
	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/storage"
	"github.com/0x5457/codesearch/internal/storage/sqlite"
	"github.com/0x5457/codesearch/internal/storage/sqlvec"
	"github.com/0x5457/codesearch/internal/workspace"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
)

// CommandRunner provides methods to run different application commands
type CommandRunner struct {
	config    *configfx.Config
	indexer   indexer.Indexer
	tree      workspace.TreeProvider
	embedder  embeddings.Embedder
	snapshots storage.Snapshots
	mcpServer *server.MCPServer
	out       io.Writer
}

// Params represents dependencies for command runner
type Params struct {
	fx.In

	Config    *configfx.Config
	Indexer   indexer.Indexer        `optional:"true"`
	Tree      workspace.TreeProvider `optional:"true"`
	Embedder  embeddings.Embedder    `optional:"true"`
	Snapshots storage.Snapshots      `optional:"true"`
	MCPServer *server.MCPServer      `optional:"true"`
	Out       io.Writer              `name:"stdout" optional:"true"`
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(params Params) *CommandRunner {
	out := params.Out
	if out == nil {
		out = os.Stdout
	}
	return &CommandRunner{
		config:    params.Config,
		indexer:   params.Indexer,
		tree:      params.Tree,
		embedder:  params.Embedder,
		snapshots: params.Snapshots,
		mcpServer: params.MCPServer,
		out:       out,
	}
}

// RunIndex indexes the configured workspace and, when a snapshot path is
// set, exports the result.
func (r *CommandRunner) RunIndex(ctx context.Context, progress bool) error {
	if err := r.index(ctx, progress); err != nil {
		return err
	}
	st := r.indexer.Status()
	_, _ = fmt.Fprintf(r.out, "indexed %d/%d files, %d chunks\n",
		st.IndexedFiles, st.TotalFiles, st.TotalChunks)
	for _, e := range st.Errors {
		_, _ = fmt.Fprintf(r.out, "  error %s: %s\n", e.File, e.Message)
	}

	if r.snapshots.Enabled() {
		if err := r.snapshots.WriteSnapshot(r.indexer.Chunks()); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		_, _ = fmt.Fprintf(r.out, "snapshot written to %s\n", r.config.SnapshotPath)
	}
	return nil
}

func (r *CommandRunner) index(ctx context.Context, progress bool) error {
	if r.indexer == nil || r.tree == nil {
		return fmt.Errorf("indexer not available")
	}
	tree, err := r.tree.FileTree(ctx)
	if err != nil {
		return fmt.Errorf("read workspace: %w", err)
	}
	var onProgress indexer.ProgressFunc
	if progress {
		onProgress = func(percent, indexed, total int) {
			_, _ = fmt.Fprintf(r.out, "\r[%3d%%] files:%d/%d", percent, indexed, total)
		}
	}
	if err := r.indexer.IndexWorkspace(ctx, tree, onProgress); err != nil {
		return err
	}
	if progress {
		_, _ = fmt.Fprintln(r.out)
	}
	return nil
}

// RunSearch indexes the workspace and prints the hybrid search results.
func (r *CommandRunner) RunSearch(ctx context.Context, query string, sctx *models.SearchContext) error {
	if err := r.index(ctx, false); err != nil {
		return err
	}
	r.printResults(r.indexer.Search(query, sctx))
	return nil
}

// RunSuggest indexes the workspace and prints suggestions for the cursor line.
func (r *CommandRunner) RunSuggest(ctx context.Context, sctx models.SearchContext) error {
	if err := r.index(ctx, false); err != nil {
		return err
	}
	r.printResults(r.indexer.ContextualSuggestions(sctx))
	return nil
}

func (r *CommandRunner) printResults(results []models.SearchResult) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(r.out, "no results")
		return
	}
	for _, hit := range results {
		_, _ = fmt.Fprintf(r.out, "[%.3f] %-8s %s:%d-%d %v\n",
			hit.Score,
			hit.Kind,
			hit.Metadata.FilePath,
			hit.Metadata.StartLine,
			hit.Metadata.EndLine,
			hit.Metadata.Symbols,
		)
	}
}

// RunSnapshotSymbol prints the chunks declaring name in the snapshot at path.
func (r *CommandRunner) RunSnapshotSymbol(path, name string) error {
	snap, err := sqlite.New(path)
	if err != nil {
		return err
	}
	defer func() { _ = snap.Close() }()
	chunks, err := snap.FindBySymbol(name)
	if err != nil {
		return err
	}
	for _, ch := range chunks {
		_, _ = fmt.Fprintf(r.out, "%s %s %s:%d-%d\n",
			name, ch.Kind, ch.Metadata.FilePath, ch.Metadata.StartLine, ch.Metadata.EndLine)
	}
	return nil
}

// RunSnapshotNearest prints the snapshot chunks closest to query.
func (r *CommandRunner) RunSnapshotNearest(path, query string, topK int) error {
	if r.embedder == nil {
		return fmt.Errorf("embedder not available")
	}
	snap, err := sqlvec.New(path, r.embedder.Dimension())
	if err != nil {
		return err
	}
	defer func() { _ = snap.Close() }()
	hits, err := snap.Nearest(r.embedder.Embed(query), topK)
	if err != nil {
		return err
	}
	for _, h := range hits {
		_, _ = fmt.Fprintf(r.out, "[%.3f] %s:%d-%d %s\n",
			h.Distance, h.FilePath, h.StartLine, h.EndLine, h.Symbols)
	}
	return nil
}

// RunMCPServer executes the MCP server
func (r *CommandRunner) RunMCPServer(transport, address string) error {
	if r.mcpServer == nil {
		return fmt.Errorf("MCP server not available")
	}

	switch transport {
	case "stdio":
		return server.ServeStdio(r.mcpServer)
	case "http":
		// Streamable HTTP server on address, default ":8080" if empty
		addr := address
		if addr == "" {
			addr = ":8080"
		}
		httpSrv := server.NewStreamableHTTPServer(r.mcpServer)
		return httpSrv.Start(addr)
	case "sse":
		// SSE server exposes two endpoints; default base path "/mcp"
		addr := address
		if addr == "" {
			addr = ":8080"
		}
		sseSrv := server.NewSSEServer(r.mcpServer,
			server.WithBaseURL(""),
			server.WithStaticBasePath("/mcp"),
		)
		return sseSrv.Start(addr)
	default:
		return fmt.Errorf(
			"unsupported transport: %s (supported: stdio, http, sse)",
			transport,
		)
	}
}

// Module provides command runner
var Module = fx.Module("commands",
	fx.Provide(NewCommandRunner),
)
