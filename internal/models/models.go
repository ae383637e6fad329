package models

import (
	"strings"
	"time"
)

type NodeType string

const (
	NodeFile      NodeType = "file"
	NodeDirectory NodeType = "directory"
)

// FileNode is one entry of a workspace snapshot. Directory children are
// ordered directories first, then by name.
type FileNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Type     NodeType    `json:"type"`
	Language string      `json:"language,omitempty"`
	Children []*FileNode `json:"children,omitempty"`
}

func (n *FileNode) IsFile() bool { return n.Type == NodeFile }

type ChunkKind string

const (
	ChunkFunction ChunkKind = "function"
	ChunkClass    ChunkKind = "class"
	ChunkModule   ChunkKind = "module"
	ChunkOther    ChunkKind = "other"
)

func StringToChunkKind(s string) ChunkKind {
	switch ChunkKind(s) {
	case ChunkFunction, ChunkClass, ChunkModule:
		return ChunkKind(s)
	default:
		return ChunkOther
	}
}

type ChunkMetadata struct {
	FileName     string    `json:"fileName"`
	FilePath     string    `json:"filePath"`
	StartLine    int       `json:"startLine"`
	EndLine      int       `json:"endLine"`
	Symbols      []string  `json:"symbols"`
	Imports      []string  `json:"imports"`
	Exports      []string  `json:"exports"`
	Language     string    `json:"language"`
	LastModified time.Time `json:"lastModified"`
}

// CodeChunk is a line-bounded excerpt of one file. Its ID is generated per
// extraction and does not survive a re-index, so callers must not keep ids
// across indexing runs.
type CodeChunk struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Kind      ChunkKind     `json:"kind"`
	Metadata  ChunkMetadata `json:"metadata"`
	Embedding []float32     `json:"-"`
}

// ContainsText reports whether needle occurs, case-insensitively, in the
// chunk content, its file name or any of its symbols.
func (c *CodeChunk) ContainsText(needle string) bool {
	needle = strings.ToLower(needle)
	if strings.Contains(strings.ToLower(c.Content), needle) ||
		strings.Contains(strings.ToLower(c.Metadata.FileName), needle) {
		return true
	}
	for _, s := range c.Metadata.Symbols {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

type SearchResult struct {
	ID       string        `json:"id"`
	Chunk    *CodeChunk    `json:"-"`
	Score    float64       `json:"score"`
	Content  string        `json:"content"`
	Kind     ChunkKind     `json:"kind"`
	Metadata ChunkMetadata `json:"metadata"`
}

func NewSearchResult(c *CodeChunk, score float64) SearchResult {
	return SearchResult{
		ID:       c.ID,
		Chunk:    c,
		Score:    score,
		Content:  c.Content,
		Kind:     c.Kind,
		Metadata: c.Metadata,
	}
}

// Position is a 1-based editor location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SearchContext describes where the user currently is in the editor.
type SearchContext struct {
	CurrentFile string   `json:"currentFile"`
	Cursor      Position `json:"cursor"`
	CurrentLine string   `json:"currentLine,omitempty"`
	Language    string   `json:"language,omitempty"`
}

type IndexingError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

type IndexingStatus struct {
	IsIndexing   bool            `json:"isIndexing"`
	Progress     int             `json:"progress"`
	TotalFiles   int             `json:"totalFiles"`
	IndexedFiles int             `json:"indexedFiles"`
	TotalChunks  int             `json:"totalChunks"`
	Errors       []IndexingError `json:"errors"`
}
