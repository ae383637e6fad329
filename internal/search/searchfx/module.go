package searchfx

import (
	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/0x5457/codesearch/internal/search"
	"go.uber.org/fx"
)

// Params represents dependencies for the search engine
type Params struct {
	fx.In

	Chunks *embeddings.ChunkEmbedder
	Config *configfx.Config `optional:"true"`
}

// NewEngine creates a new hybrid search engine instance
func NewEngine(params Params) (*search.Engine, error) {
	size := search.DefaultQueryCacheSize
	if params.Config != nil && params.Config.QueryCacheSize > 0 {
		size = params.Config.QueryCacheSize
	}
	return search.NewEngine(params.Chunks, size)
}

// Module provides search components
var Module = fx.Module("search",
	fx.Provide(NewEngine),
)
