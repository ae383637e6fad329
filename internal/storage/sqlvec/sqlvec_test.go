package sqlvec

import (
	"path/filepath"
	"testing"

	"github.com/0x5457/codesearch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecChunk(id string, emb []float32) *models.CodeChunk {
	return &models.CodeChunk{
		ID:   id,
		Kind: models.ChunkFunction,
		Metadata: models.ChunkMetadata{
			FilePath:  "/src/" + id + ".ts",
			StartLine: 1,
			EndLine:   3,
			Symbols:   []string{id},
		},
		Embedding: emb,
	}
}

func TestNearest(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "vec.db"), 3)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = store.WriteSnapshot([]*models.CodeChunk{
		vecChunk("x", []float32{1, 0, 0}),
		vecChunk("y", []float32{0, 1, 0}),
		vecChunk("z", []float32{0, 0, 1}),
		vecChunk("skipped", nil),
	})
	require.NoError(t, err)

	hits, err := store.Nearest([]float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "x", hits[0].ID)
	assert.Equal(t, "y", hits[1].ID)
	assert.Equal(t, "/src/x.ts", hits[0].FilePath)
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
}

func TestWriteSnapshotDimensionMismatch(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "vec.db"), 3)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = store.WriteSnapshot([]*models.CodeChunk{vecChunk("x", []float32{1, 0})})
	assert.Error(t, err)
}

func TestNewRejectsInvalidDimension(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "vec.db"), 0)
	assert.Error(t, err)
}
