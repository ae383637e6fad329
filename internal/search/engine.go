package search

import (
	"math"
	"sort"
	"strings"

	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/0x5457/codesearch/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	SemanticTopK  = 20
	MaxResults    = 10
	KeywordScore  = 0.8
	ContextWeight = 0.5
	ContextBonus  = 0.2

	DefaultQueryCacheSize = 256
)

// Engine ranks chunks by merging semantic, keyword and editor-context
// candidates. It never mutates the corpus beyond embedding chunks that were
// not embedded yet.
type Engine struct {
	chunks  *embeddings.ChunkEmbedder
	queries *lru.Cache[string, []float32]
}

func NewEngine(chunks *embeddings.ChunkEmbedder, queryCacheSize int) (*Engine, error) {
	if queryCacheSize <= 0 {
		queryCacheSize = DefaultQueryCacheSize
	}
	cache, err := lru.New[string, []float32](queryCacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{chunks: chunks, queries: cache}, nil
}

// merged keeps candidates in insertion order so equal scores keep the
// semantic, keyword, context precedence.
type merged struct {
	order  []*models.CodeChunk
	scores map[string]float64
}

func newMerged() *merged {
	return &merged{scores: make(map[string]float64)}
}

func (m *merged) add(ch *models.CodeChunk, score float64) {
	m.order = append(m.order, ch)
	m.scores[ch.ID] = score
}

func (m *merged) results() []models.SearchResult {
	out := make([]models.SearchResult, 0, len(m.order))
	for _, ch := range m.order {
		out = append(out, models.NewSearchResult(ch, m.scores[ch.ID]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// Search returns at most MaxResults chunks of corpus ordered by descending
// score. sctx may be nil.
func (e *Engine) Search(
	query string,
	corpus []*models.CodeChunk,
	sctx *models.SearchContext,
) []models.SearchResult {
	if len(corpus) == 0 {
		return []models.SearchResult{}
	}

	m := newMerged()
	for _, c := range e.semantic(query, corpus) {
		m.add(c.chunk, c.score)
	}

	for _, ch := range corpus {
		if !ch.ContainsText(query) {
			continue
		}
		if s, ok := m.scores[ch.ID]; ok {
			m.scores[ch.ID] = math.Max(s, KeywordScore)
			continue
		}
		m.add(ch, KeywordScore)
	}

	if sctx != nil {
		for _, c := range contextual(corpus, *sctx) {
			if s, ok := m.scores[c.chunk.ID]; ok {
				m.scores[c.chunk.ID] = math.Min(1.0, s+ContextBonus)
				continue
			}
			m.add(c.chunk, c.score)
		}
	}
	return m.results()
}

// ContextualSuggestions searches with the trimmed current line as query.
func (e *Engine) ContextualSuggestions(
	corpus []*models.CodeChunk,
	sctx models.SearchContext,
) []models.SearchResult {
	query := strings.TrimSpace(sctx.CurrentLine)
	if query == "" {
		return []models.SearchResult{}
	}
	return e.Search(query, corpus, &sctx)
}

type candidate struct {
	chunk *models.CodeChunk
	score float64
}

func (e *Engine) semantic(query string, corpus []*models.CodeChunk) []candidate {
	qv := e.queryVector(query)
	cands := make([]candidate, 0, len(corpus))
	for _, ch := range corpus {
		cands = append(cands, candidate{
			chunk: ch,
			score: embeddings.Similarity(qv, e.chunks.Vector(ch)),
		})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) > SemanticTopK {
		cands = cands[:SemanticTopK]
	}
	return cands
}

func (e *Engine) queryVector(query string) []float32 {
	if v, ok := e.queries.Get(query); ok {
		return v
	}
	v := e.chunks.Embedder().Embed(query)
	e.queries.Add(query, v)
	return v
}

func contextual(corpus []*models.CodeChunk, sctx models.SearchContext) []candidate {
	var cands []candidate
	for _, ch := range corpus {
		if ch.Metadata.FilePath != sctx.CurrentFile {
			continue
		}
		cands = append(cands, candidate{
			chunk: ch,
			score: Proximity(ch.Metadata.StartLine, sctx.Cursor.Line) * ContextWeight,
		})
	}
	return cands
}

// Proximity decays with the line distance between a chunk start and the
// cursor: 1 at distance 0, 0.5 at distance 10.
func Proximity(startLine, cursorLine int) float64 {
	d := math.Abs(float64(startLine - cursorLine))
	return 1 / (1 + d/10)
}
