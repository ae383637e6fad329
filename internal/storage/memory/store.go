package memory

import (
	"sync"

	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/storage"
)

type ChunkStore struct {
	mu   sync.RWMutex
	data  map[string][]*models.CodeChunk // file -> chunks
	files []string                       // first-insert order
	n     int
}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{data: make(map[string][]*models.CodeChunk)}
}

func (s *ChunkStore) Insert(chunks ...*models.CodeChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range chunks {
		file := ch.Metadata.FilePath
		if _, ok := s.data[file]; !ok {
			s.files = append(s.files, file)
		}
		s.data[file] = append(s.data[file], ch)
		s.n++
	}
}

func (s *ChunkStore) All() []*models.CodeChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*models.CodeChunk, 0, s.n)
	for _, f := range s.files {
		all = append(all, s.data[f]...)
	}
	return all
}

// FindByText is a linear scan using the keyword contract of
// models.CodeChunk.ContainsText.
func (s *ChunkStore) FindByText(needle string) []*models.CodeChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []*models.CodeChunk
	for _, f := range s.files {
		for _, ch := range s.data[f] {
			if ch.ContainsText(needle) {
				hits = append(hits, ch)
			}
		}
	}
	return hits
}

func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n
}

func (s *ChunkStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]*models.CodeChunk)
	s.files = nil
	s.n = 0
}

var _ storage.ChunkStore = (*ChunkStore)(nil)
