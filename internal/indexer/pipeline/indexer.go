package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/0x5457/codesearch/internal/indexer"
	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/parser"
	"github.com/0x5457/codesearch/internal/search"
	"github.com/0x5457/codesearch/internal/storage"
	"github.com/0x5457/codesearch/internal/workspace"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

type Options struct {
	// OnError defaults to a warn log line.
	OnError indexer.ErrorFunc
	Logger  *zerolog.Logger
}

// Indexer owns one index: its store, its embedding cache and the status of
// the latest run.
type Indexer struct {
	x       parser.Extractor
	emb     *embeddings.ChunkEmbedder
	store   storage.ChunkStore
	engine  *search.Engine
	content workspace.ContentProvider
	opt     Options
	log     zerolog.Logger
	langs   map[string]struct{}

	// one run at a time
	run *semaphore.Weighted

	mu     sync.RWMutex
	status models.IndexingStatus
}

func New(
	x parser.Extractor,
	emb *embeddings.ChunkEmbedder,
	store storage.ChunkStore,
	engine *search.Engine,
	content workspace.ContentProvider,
	opt Options,
) *Indexer {
	log := zerolog.Nop()
	if opt.Logger != nil {
		log = *opt.Logger
	}
	i := &Indexer{
		x:       x,
		emb:     emb,
		store:   store,
		engine:  engine,
		content: content,
		opt:     opt,
		log:     log.With().Str("component", "indexer").Logger(),
		langs:   make(map[string]struct{}),
		run:     semaphore.NewWeighted(1),
		status:  models.IndexingStatus{Errors: []models.IndexingError{}},
	}
	for _, l := range x.Languages() {
		i.langs[l] = struct{}{}
	}
	if i.opt.OnError == nil {
		i.opt.OnError = func(file, message string) {
			i.log.Warn().Str("file", file).Str("error", message).Msg("failed to index file")
		}
	}
	return i
}

func (i *Indexer) eligible(n *models.FileNode) bool {
	if !n.IsFile() {
		return false
	}
	_, ok := i.langs[n.Language]
	return ok
}

// IndexWorkspace rebuilds the index from tree. Files are fetched one at a
// time in depth-first order; a file that cannot be fetched or parsed is
// recorded and skipped. ctx is handed to the content provider only.
func (i *Indexer) IndexWorkspace(
	ctx context.Context,
	tree *models.FileNode,
	onProgress indexer.ProgressFunc,
) error {
	if !i.run.TryAcquire(1) {
		return indexer.ErrIndexingInProgress
	}
	defer i.run.Release(1)
	if onProgress == nil {
		onProgress = func(int, int, int) {}
	}

	files := i.eligibleFiles(tree)
	total := len(files)

	i.store.Clear()
	i.emb.Clear()
	i.mu.Lock()
	i.status = models.IndexingStatus{
		IsIndexing: true,
		TotalFiles: total,
		Errors:     []models.IndexingError{},
	}
	i.mu.Unlock()
	defer func() {
		i.mu.Lock()
		i.status.IsIndexing = false
		i.mu.Unlock()
	}()

	start := time.Now()
	i.log.Info().Int("files", total).Msg("indexing started")

	indexed := 0
	for _, f := range files {
		chunks, err := i.indexFile(ctx, f)
		if err != nil {
			i.recordError(f.Path, err)
			continue
		}
		i.store.Insert(chunks...)
		indexed++
		progress := percent(indexed, total)
		i.mu.Lock()
		i.status.IndexedFiles = indexed
		i.status.Progress = progress
		i.mu.Unlock()
		onProgress(progress, indexed, total)
	}

	i.emb.EmbedChunks(i.store.All())

	i.mu.Lock()
	i.status.Progress = 100
	nerrs := len(i.status.Errors)
	i.mu.Unlock()
	onProgress(100, indexed, total)

	i.log.Info().
		Int("files", indexed).
		Int("chunks", i.store.Len()).
		Int("errors", nerrs).
		Dur("took", time.Since(start)).
		Msg("indexing finished")
	return nil
}

func (i *Indexer) indexFile(ctx context.Context, f *models.FileNode) (chunks []*models.CodeChunk, err error) {
	content, err := i.content.FileContent(ctx, f.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			chunks, err = nil, fmt.Errorf("parse %s: %v", f.Path, r)
		}
	}()
	return i.x.Extract(f.Path, content, f.Language), nil
}

func (i *Indexer) recordError(file string, err error) {
	msg := err.Error()
	i.mu.Lock()
	i.status.Errors = append(i.status.Errors, models.IndexingError{File: file, Message: msg})
	i.mu.Unlock()
	i.opt.OnError(file, msg)
}

// eligibleFiles lists supported files in pre-order, children in tree order.
func (i *Indexer) eligibleFiles(tree *models.FileNode) []*models.FileNode {
	var files []*models.FileNode
	if tree == nil {
		return files
	}
	stack := []*models.FileNode{tree}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i.eligible(n) {
			files = append(files, n)
			continue
		}
		for c := len(n.Children) - 1; c >= 0; c-- {
			stack = append(stack, n.Children[c])
		}
	}
	return files
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func (i *Indexer) Search(query string, sctx *models.SearchContext) []models.SearchResult {
	return i.engine.Search(query, i.store.All(), sctx)
}

func (i *Indexer) ContextualSuggestions(sctx models.SearchContext) []models.SearchResult {
	return i.engine.ContextualSuggestions(i.store.All(), sctx)
}

// Status returns a snapshot of the latest run.
func (i *Indexer) Status() models.IndexingStatus {
	i.mu.RLock()
	st := i.status
	st.Errors = append([]models.IndexingError{}, i.status.Errors...)
	i.mu.RUnlock()
	st.TotalChunks = i.store.Len()
	return st
}

func (i *Indexer) Chunks() []*models.CodeChunk { return i.store.All() }

var _ indexer.Indexer = (*Indexer)(nil)
