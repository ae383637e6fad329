package storage

import "github.com/0x5457/codesearch/internal/models"

// ChunkStore holds the chunks of the current indexing run. Ordering of All
// is unspecified.
type ChunkStore interface {
	Insert(chunks ...*models.CodeChunk)
	All() []*models.CodeChunk
	FindByText(needle string) []*models.CodeChunk
	Len() int
	Clear()
}

// SnapshotWriter persists an inspection copy of a finished run.
type SnapshotWriter interface {
	WriteSnapshot(chunks []*models.CodeChunk) error
	Close() error
}
