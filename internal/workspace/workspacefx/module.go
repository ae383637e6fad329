package workspacefx

import (
	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/0x5457/codesearch/internal/workspace"
	"github.com/0x5457/codesearch/internal/workspace/localfs"
	"go.uber.org/fx"
)

// NewWorkspace opens the configured workspace directory
func NewWorkspace(config *configfx.Config) (*localfs.Workspace, error) {
	return localfs.New(config.Workspace, config.IgnoreDirs)
}

// Module provides the workspace collaborator
var Module = fx.Module("workspace",
	fx.Provide(
		fx.Annotate(
			NewWorkspace,
			fx.As(new(workspace.Provider)),
			fx.As(new(workspace.TreeProvider)),
			fx.As(new(workspace.ContentProvider)),
		),
	),
)
