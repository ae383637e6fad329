package workspace

import (
	"context"
	"fmt"

	"github.com/0x5457/codesearch/internal/models"
)

// TreeProvider returns the current snapshot of a workspace. The tree must not
// change while an indexing run walks it.
type TreeProvider interface {
	FileTree(ctx context.Context) (*models.FileNode, error)
}

// ContentProvider fetches the text of a file by its tree path.
type ContentProvider interface {
	FileContent(ctx context.Context, path string) (string, error)
}

// Provider is a workspace offering both the tree and file contents.
type Provider interface {
	TreeProvider
	ContentProvider
}

// FetchError reports that the content of a file could not be obtained.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
