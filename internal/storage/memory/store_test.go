package memory_test

import (
	"path"
	"testing"

	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(id, file, content string, symbols ...string) *models.CodeChunk {
	return &models.CodeChunk{
		ID:      id,
		Content: content,
		Kind:    models.ChunkFunction,
		Metadata: models.ChunkMetadata{
			FileName: path.Base(file),
			FilePath: file,
			Symbols:  symbols,
		},
	}
}

func ids(chunks []*models.CodeChunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.ID
	}
	return out
}

func Test_ChunkStore_InsertAllClear(t *testing.T) {
	s := memory.NewChunkStore()
	assert.Empty(t, s.All())

	s.Insert(mk("1", "/src/a.ts", "function a() {}", "a"))
	s.Insert(mk("2", "/src/a.ts", "function b() {}", "b"), mk("3", "/src/c.ts", "class C {}", "C"))

	assert.Equal(t, 3, s.Len())
	assert.ElementsMatch(t, []string{"1", "2", "3"}, ids(s.All()))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.All())
}

func Test_ChunkStore_FindByText(t *testing.T) {
	s := memory.NewChunkStore()
	s.Insert(
		mk("content", "/src/a.ts", "return computeTotal(items)"),
		mk("symbol", "/src/b.ts", "function x() {}", "ComputeTotalPrice"),
		mk("file", "/src/total/t.ts", "noop"),
		mk("none", "/src/d.ts", "function other() {}", "other"),
	)

	hits := s.FindByText("COMPUTETOTAL")
	assert.ElementsMatch(t, []string{"content", "symbol"}, ids(hits))

	// File name match: the fixture file name is "t.ts".
	hits = s.FindByText("t.ts")
	require.NotEmpty(t, hits)
	assert.Contains(t, ids(hits), "file")

	assert.Empty(t, s.FindByText("missing-needle"))
}

func Test_ChunkStore_AllKeepsFileInsertOrder(t *testing.T) {
	s := memory.NewChunkStore()
	s.Insert(mk("b1", "/b.ts", "b"), mk("a1", "/a.ts", "a"))
	s.Insert(mk("b2", "/b.ts", "b"))

	assert.Equal(t, []string{"b1", "b2", "a1"}, ids(s.All()))
}
