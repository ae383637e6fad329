package indexerfx

import (
	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/0x5457/codesearch/internal/indexer"
	"github.com/0x5457/codesearch/internal/indexer/pipeline"
	"github.com/0x5457/codesearch/internal/parser"
	"github.com/0x5457/codesearch/internal/search"
	"github.com/0x5457/codesearch/internal/storage"
	"github.com/0x5457/codesearch/internal/workspace"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Params represents dependencies for indexer components
type Params struct {
	fx.In

	Extractor parser.Extractor
	Chunks    *embeddings.ChunkEmbedder
	Store     storage.ChunkStore
	Engine    *search.Engine
	Content   workspace.ContentProvider
	Logger    zerolog.Logger
}

// NewIndexer creates a new indexer instance
func NewIndexer(params Params) indexer.Indexer {
	return pipeline.New(
		params.Extractor,
		params.Chunks,
		params.Store,
		params.Engine,
		params.Content,
		pipeline.Options{Logger: &params.Logger},
	)
}

// Module provides indexer components
var Module = fx.Module("indexer",
	fx.Provide(NewIndexer),
)
