package storagefx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func newApp(t *testing.T, cfg *configfx.Config, targets ...any) *fx.App {
	t.Helper()
	return fx.New(
		Module,
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() embeddings.Embedder { return embeddings.NewHash() }),
		fx.Populate(targets...),
	)
}

func TestStorageModuleWithoutSnapshot(t *testing.T) {
	var store storage.ChunkStore
	var snaps storage.Snapshots
	app := newApp(t, &configfx.Config{}, &store, &snaps)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer func() {
		require.NoError(t, app.Stop(ctx))
	}()

	assert.NotNil(t, store)
	assert.False(t, snaps.Enabled())
	assert.NoError(t, snaps.WriteSnapshot(nil))
}

func TestStorageModuleWithSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.db")
	var snaps storage.Snapshots
	app := newApp(t, &configfx.Config{SnapshotPath: path}, &snaps)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer func() {
		require.NoError(t, app.Stop(ctx))
	}()

	require.True(t, snaps.Enabled())
	emb := embeddings.NewHash()
	ch := &models.CodeChunk{
		ID:       "c1",
		Content:  "function greet() {}",
		Kind:     models.ChunkFunction,
		Metadata: models.ChunkMetadata{FilePath: "/a.ts", FileName: "a.ts", Symbols: []string{"greet"}},
	}
	ch.Embedding = emb.Embed(ch.Content)
	assert.NoError(t, snaps.WriteSnapshot([]*models.CodeChunk{ch}))
}
