package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/0x5457/codesearch/internal/indexer"
	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/storage/sqlite"
	"github.com/0x5457/codesearch/internal/workspace"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// ServerOptions contains configuration for the MCP server
type ServerOptions struct {
	SnapshotPath string // default SQLite snapshot for snapshot_symbol
	Logger       *zerolog.Logger
}

// Server exposes one index over MCP
type Server struct {
	opts   ServerOptions
	idx    indexer.Indexer
	tree   workspace.TreeProvider
	server *server.MCPServer
	log    zerolog.Logger
}

// SearchResponse wraps a result list so tools return a JSON object.
type SearchResponse struct {
	Results []models.SearchResult `json:"results"`
}

type SymbolResponse struct {
	Chunks []models.CodeChunk `json:"chunks"`
}

// New returns an MCP server exposing search, indexing and snapshot tools.
func New(idx indexer.Indexer, tree workspace.TreeProvider, opts ServerOptions) *server.MCPServer {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	srv := &Server{
		opts: opts,
		idx:  idx,
		tree: tree,
		log:  log.With().Str("component", "mcp").Logger(),
		server: server.NewMCPServer(
			"codesearch/mcp",
			"0.1.0",
			server.WithToolCapabilities(true),
		),
	}

	// Search tools
	srv.server.AddTool(newSearchTool(), srv.handleSearch)
	srv.server.AddTool(newContextualSuggestionsTool(), srv.handleContextualSuggestions)

	// Indexing tools
	srv.server.AddTool(newIndexWorkspaceTool(), srv.handleIndexWorkspace)
	srv.server.AddTool(newIndexingStatusTool(), srv.handleIndexingStatus)

	// Snapshot tools
	srv.server.AddTool(newSnapshotSymbolTool(), srv.handleSnapshotSymbol)

	return srv.server
}

// Tool definitions
func newSearchTool() mcp.Tool {
	return mcp.NewTool(
		"search",
		mcp.WithDescription("Hybrid code search combining semantic, keyword and editor context signals"),
		mcp.WithString("query", mcp.Description("Search query"), mcp.Required()),
		mcp.WithString("current_file", mcp.Description("Path of the file open in the editor")),
		mcp.WithNumber("line", mcp.Description("1-based cursor line in current_file")),
		mcp.WithNumber("column", mcp.Description("1-based cursor column")),
	)
}

func newContextualSuggestionsTool() mcp.Tool {
	return mcp.NewTool(
		"contextual_suggestions",
		mcp.WithDescription("Suggest related code for the line under the cursor"),
		mcp.WithString("current_file", mcp.Description("Path of the file open in the editor"), mcp.Required()),
		mcp.WithNumber("line", mcp.Description("1-based cursor line"), mcp.Required()),
		mcp.WithString("current_line", mcp.Description("Text of the cursor line"), mcp.Required()),
		mcp.WithNumber("column", mcp.Description("1-based cursor column")),
		mcp.WithString("language", mcp.Description("Language of current_file")),
	)
}

func newIndexWorkspaceTool() mcp.Tool {
	return mcp.NewTool(
		"index_workspace",
		mcp.WithDescription("Rebuild the index from the workspace; chunk ids of earlier runs become invalid"),
	)
}

func newIndexingStatusTool() mcp.Tool {
	return mcp.NewTool(
		"indexing_status",
		mcp.WithDescription("Show progress and per-file errors of the latest indexing run"),
	)
}

func newSnapshotSymbolTool() mcp.Tool {
	return mcp.NewTool(
		"snapshot_symbol",
		mcp.WithDescription("Exact symbol name lookup in an exported SQLite snapshot"),
		mcp.WithString("name", mcp.Description("Symbol name"), mcp.Required()),
		mcp.WithString("db", mcp.Description("SQLite snapshot path")),
	)
}

// Handlers
func (srv *Server) handleSearch(
	_ context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var sctx *models.SearchContext
	if file := req.GetString("current_file", ""); file != "" {
		sctx = &models.SearchContext{
			CurrentFile: file,
			Cursor: models.Position{
				Line:   req.GetInt("line", 1),
				Column: req.GetInt("column", 1),
			},
		}
	}
	res := srv.idx.Search(query, sctx)
	return mcp.NewToolResultStructuredOnly(SearchResponse{Results: res}), nil
}

func (srv *Server) handleContextualSuggestions(
	_ context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("current_file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := req.RequireInt("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	currentLine, err := req.RequireString("current_line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := srv.idx.ContextualSuggestions(models.SearchContext{
		CurrentFile: file,
		Cursor:      models.Position{Line: line, Column: req.GetInt("column", 1)},
		CurrentLine: currentLine,
		Language:    req.GetString("language", ""),
	})
	return mcp.NewToolResultStructuredOnly(SearchResponse{Results: res}), nil
}

func (srv *Server) handleIndexWorkspace(
	ctx context.Context,
	_ mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	if srv.tree == nil {
		return mcp.NewToolResultError("workspace not configured"), nil
	}
	tree, err := srv.tree.FileTree(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read workspace failed: %v", err)), nil
	}
	err = srv.idx.IndexWorkspace(ctx, tree, func(percent, indexed, total int) {
		srv.log.Debug().Int("percent", percent).Int("indexed", indexed).Int("total", total).Msg("progress")
	})
	if errors.Is(err, indexer.ErrIndexingInProgress) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index workspace failed: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(srv.idx.Status()), nil
}

func (srv *Server) handleIndexingStatus(
	_ context.Context,
	_ mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultStructuredOnly(srv.idx.Status()), nil
}

func (srv *Server) handleSnapshotSymbol(
	_ context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dbPath := req.GetString("db", srv.opts.SnapshotPath)
	if dbPath == "" {
		return mcp.NewToolResultError(
			"snapshot path must be specified (through parameters or server configuration)",
		), nil
	}
	snap, err := sqlite.New(dbPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("open snapshot failed: %v", err)), nil
	}
	defer func() { _ = snap.Close() }()

	chunks, err := snap.FindBySymbol(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if chunks == nil {
		chunks = []models.CodeChunk{}
	}
	return mcp.NewToolResultStructuredOnly(SymbolResponse{Chunks: chunks}), nil
}
