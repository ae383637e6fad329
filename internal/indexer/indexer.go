package indexer

import (
	"context"
	"errors"

	"github.com/0x5457/codesearch/internal/models"
)

// ErrIndexingInProgress is returned when a run is requested while another
// one is still active.
var ErrIndexingInProgress = errors.New("indexing already in progress")

// ProgressFunc receives percent in 0..100, non-decreasing within a run.
type ProgressFunc func(percent, indexedFiles, totalFiles int)

// ErrorFunc is told about every file that failed during a run.
type ErrorFunc func(file, message string)

type Indexer interface {
	// IndexWorkspace replaces the index with the eligible files of tree.
	// Chunk ids from earlier runs are invalid once it starts.
	IndexWorkspace(ctx context.Context, tree *models.FileNode, onProgress ProgressFunc) error
	Search(query string, sctx *models.SearchContext) []models.SearchResult
	ContextualSuggestions(sctx models.SearchContext) []models.SearchResult
	Status() models.IndexingStatus
	Chunks() []*models.CodeChunk
}
