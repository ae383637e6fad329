package configfx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestConfigModule(t *testing.T) {
	var config *Config
	app := fx.New(
		Module,
		fx.Supply(
			fx.Annotate("", fx.ResultTags(`name:"configPath"`)),
			fx.Annotate("/tmp/project", fx.ResultTags(`name:"workspace"`)),
			fx.Annotate("/tmp/snapshot.db", fx.ResultTags(`name:"snapshotPath"`)),
		),
		fx.Populate(&config),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer func() {
		require.NoError(t, app.Stop(ctx))
	}()

	assert.NotNil(t, config)
	assert.Equal(t, "/tmp/project", config.Workspace)
	assert.Equal(t, "/tmp/snapshot.db", config.SnapshotPath)
}

func TestConfigDefaults(t *testing.T) {
	var config *Config
	app := fx.New(
		Module,
		fx.Populate(&config),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer func() {
		require.NoError(t, app.Stop(ctx))
	}()

	assert.Equal(t, ".", config.Workspace)
	assert.Equal(t, []string{"node_modules", "dist", "build"}, config.IgnoreDirs)
	assert.Equal(t, 256, config.QueryCacheSize)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "console", config.Log.Format)
	assert.Equal(t, "stdio", config.MCP.Transport)
	assert.Equal(t, ":8080", config.MCP.Address)
	assert.Empty(t, config.SnapshotPath)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codesearch.yaml")
	err := os.WriteFile(path, []byte(`
workspace: /srv/app
query_cache_size: 16
log:
  level: debug
mcp:
  transport: http
`), 0o644)
	require.NoError(t, err)

	t.Setenv("CODESEARCH_LOG_FORMAT", "json")
	t.Setenv("CODESEARCH_MCP_ADDRESS", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/app", cfg.Workspace)
	assert.Equal(t, 16, cfg.QueryCacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http", cfg.MCP.Transport)
	assert.Equal(t, ":9090", cfg.MCP.Address)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.MCP.Transport = "grpc"
	assert.Error(t, cfg.Validate())

	cfg.MCP.Transport = "stdio"
	cfg.QueryCacheSize = 0
	assert.Error(t, cfg.Validate())
}
