package storagefx

import (
	"context"
	"fmt"

	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/0x5457/codesearch/internal/storage"
	"github.com/0x5457/codesearch/internal/storage/memory"
	"github.com/0x5457/codesearch/internal/storage/sqlite"
	"github.com/0x5457/codesearch/internal/storage/sqlvec"
	"go.uber.org/fx"
)

// Params represents dependencies for storage components
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *configfx.Config
	Embedder  embeddings.Embedder
}

// NewChunkStore creates the in-memory index store
func NewChunkStore() storage.ChunkStore {
	return memory.NewChunkStore()
}

// OpenSnapshots opens the chunk and vector snapshot stores at path.
func OpenSnapshots(path string, dimension int) (storage.Snapshots, error) {
	chunks, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("open chunk snapshot: %w", err)
	}
	vectors, err := sqlvec.New(path, dimension)
	if err != nil {
		_ = chunks.Close()
		return nil, fmt.Errorf("open vector snapshot: %w", err)
	}
	return storage.Snapshots{chunks, vectors}, nil
}

// NewSnapshots opens the snapshot stores when a snapshot path is configured.
func NewSnapshots(params Params) (storage.Snapshots, error) {
	if params.Config.SnapshotPath == "" {
		return nil, nil
	}
	snaps, err := OpenSnapshots(params.Config.SnapshotPath, params.Embedder.Dimension())
	if err != nil {
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error { return snaps.Close() },
	})
	return snaps, nil
}

// Module provides storage components
var Module = fx.Module("storage",
	fx.Provide(
		NewChunkStore,
		NewSnapshots,
	),
)
