package localfs

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/workspace"
)

var DefaultIgnoreDirs = []string{"node_modules", "dist", "build"}

var errOutsideRoot = errors.New("path escapes workspace root")

var extLanguages = map[string]string{
	".js":   "javascript",
	".jsx":  "jsx",
	".ts":   "typescript",
	".tsx":  "tsx",
	".md":   "markdown",
	".json": "json",
	".css":  "css",
	".html": "html",
	".py":   "python",
	".java": "java",
	".cpp":  "cpp",
	".c":    "c",
	".go":   "go",
	".rs":   "rust",
}

// LanguageForFile maps a file name to the language reported in the tree.
func LanguageForFile(name string) string {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(name))]; ok {
		return lang
	}
	return "plaintext"
}

// Workspace serves a directory on disk. Paths in the tree are slash
// separated and rooted at "/".
type Workspace struct {
	root   string
	ignore map[string]struct{}
}

func New(root string, ignoreDirs []string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: abs, Err: errors.New("not a directory")}
	}
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}
	ignore := make(map[string]struct{}, len(ignoreDirs))
	for _, d := range ignoreDirs {
		ignore[d] = struct{}{}
	}
	return &Workspace{root: abs, ignore: ignore}, nil
}

func (w *Workspace) Root() string { return w.root }

func (w *Workspace) FileTree(ctx context.Context) (*models.FileNode, error) {
	rootNode := &models.FileNode{
		Name: filepath.Base(w.root),
		Path: "/",
		Type: models.NodeDirectory,
	}
	type pending struct {
		node *models.FileNode
		dir  string
	}
	stack := []pending{{node: rootNode, dir: w.root}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(cur.dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			child := &models.FileNode{Name: name, Path: path.Join(cur.node.Path, name)}
			if e.IsDir() {
				if _, skip := w.ignore[name]; skip {
					continue
				}
				child.Type = models.NodeDirectory
				stack = append(stack, pending{node: child, dir: filepath.Join(cur.dir, name)})
			} else if e.Type().IsRegular() {
				child.Type = models.NodeFile
				child.Language = LanguageForFile(name)
			} else {
				continue
			}
			cur.node.Children = append(cur.node.Children, child)
		}
		sortChildren(cur.node.Children)
	}
	return rootNode, nil
}

func sortChildren(children []*models.FileNode) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.IsFile() != b.IsFile() {
			return !a.IsFile()
		}
		return a.Name < b.Name
	})
}

// FileContent reads the file at a tree path. Every failure is a
// *workspace.FetchError.
func (w *Workspace) FileContent(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &workspace.FetchError{Path: p, Err: err}
	}
	full, err := w.resolve(p)
	if err != nil {
		return "", &workspace.FetchError{Path: p, Err: err}
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", &workspace.FetchError{Path: p, Err: err}
	}
	return string(data), nil
}

func (w *Workspace) resolve(p string) (string, error) {
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if seg == ".." {
			return "", errOutsideRoot
		}
	}
	return filepath.Join(w.root, filepath.FromSlash(path.Clean("/"+p))), nil
}

var _ workspace.Provider = (*Workspace)(nil)
