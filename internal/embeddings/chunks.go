package embeddings

import (
	"strings"
	"sync"

	"github.com/0x5457/codesearch/internal/models"
)

// maxContentRunes bounds how much of a chunk body feeds its embedding.
const maxContentRunes = 500

// ChunkEmbedder embeds chunks and caches the vectors by chunk id for the
// lifetime of one indexing run.
type ChunkEmbedder struct {
	e Embedder

	mu    sync.RWMutex
	cache map[string][]float32
}

func NewChunkEmbedder(e Embedder) *ChunkEmbedder {
	return &ChunkEmbedder{e: e, cache: make(map[string][]float32)}
}

func (c *ChunkEmbedder) Embedder() Embedder { return c.e }

// EmbedChunk embeds ch, records the vector in the cache and on the chunk.
func (c *ChunkEmbedder) EmbedChunk(ch *models.CodeChunk) []float32 {
	vec := c.e.Embed(ChunkText(ch))
	c.mu.Lock()
	c.cache[ch.ID] = vec
	ch.Embedding = vec
	c.mu.Unlock()
	return vec
}

// EmbedChunks embeds every chunk that is not cached yet, in order.
func (c *ChunkEmbedder) EmbedChunks(chunks []*models.CodeChunk) {
	for _, ch := range chunks {
		if _, ok := c.Lookup(ch.ID); ok {
			continue
		}
		c.EmbedChunk(ch)
	}
}

func (c *ChunkEmbedder) Lookup(id string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.cache[id]
	return v, ok
}

// Vector returns the cached vector for ch, embedding it on a miss.
func (c *ChunkEmbedder) Vector(ch *models.CodeChunk) []float32 {
	if v, ok := c.Lookup(ch.ID); ok {
		return v
	}
	return c.EmbedChunk(ch)
}

func (c *ChunkEmbedder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *ChunkEmbedder) Clear() {
	c.mu.Lock()
	c.cache = make(map[string][]float32)
	c.mu.Unlock()
}

// ChunkText is the text a chunk is embedded from: file name, symbols and the
// head of the content, one per line.
func ChunkText(ch *models.CodeChunk) string {
	content := ch.Content
	if r := []rune(content); len(r) > maxContentRunes {
		content = string(r[:maxContentRunes])
	}
	return strings.Join([]string{
		ch.Metadata.FileName,
		strings.Join(ch.Metadata.Symbols, " "),
		content,
	}, "\n")
}
