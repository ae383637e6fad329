package embeddingsfx

import (
	"github.com/0x5457/codesearch/internal/embeddings"
	"go.uber.org/fx"
)

// NewEmbedder creates the hash vectorizer used for chunks and queries
func NewEmbedder() embeddings.Embedder {
	return embeddings.NewHash()
}

// NewChunkEmbedder creates the per-run chunk embedding cache
func NewChunkEmbedder(e embeddings.Embedder) *embeddings.ChunkEmbedder {
	return embeddings.NewChunkEmbedder(e)
}

// Module provides embeddings components
var Module = fx.Module("embeddings",
	fx.Provide(
		NewEmbedder,
		NewChunkEmbedder,
	),
)
