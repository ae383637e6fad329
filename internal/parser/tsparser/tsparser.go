package tsparser

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/0x5457/codesearch/internal/models"
	"github.com/0x5457/codesearch/internal/parser"
	"github.com/google/uuid"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tstypes "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const anonymous = "anonymous"

// nodeCategory is the closed set of syntax node kinds the extractor reacts to.
type nodeCategory int

const (
	categoryOther nodeCategory = iota
	categoryFunction
	categoryClass
	categoryImport
	categoryExport
)

func categorize(kind string) nodeCategory {
	switch kind {
	case "function_declaration", "method_definition", "arrow_function", "function_expression":
		return categoryFunction
	case "class_declaration", "abstract_class_declaration":
		return categoryClass
	case "import_statement":
		return categoryImport
	case "export_statement":
		return categoryExport
	default:
		return categoryOther
	}
}

type TSParser struct {
	grammars map[string]*tree_sitter.Language
	now      func() time.Time
}

func New() *TSParser {
	js := tree_sitter.NewLanguage(tsjavascript.Language())
	return &TSParser{
		grammars: map[string]*tree_sitter.Language{
			"javascript": js,
			"jsx":        js,
			"typescript": tree_sitter.NewLanguage(tstypes.LanguageTypescript()),
			"tsx":        tree_sitter.NewLanguage(tstypes.LanguageTSX()),
		},
		now: time.Now,
	}
}

func (p *TSParser) Languages() []string {
	langs := make([]string, 0, len(p.grammars))
	for name := range p.grammars {
		langs = append(langs, name)
	}
	sort.Strings(langs)
	return langs
}

func (p *TSParser) Extract(filePath, content, language string) []*models.CodeChunk {
	code := []byte(content)
	lines := strings.Split(content, "\n")
	base := models.ChunkMetadata{
		FileName:     path.Base(filePath),
		FilePath:     filePath,
		Language:     language,
		LastModified: p.now(),
	}

	tree := p.parse(code, language)
	if tree == nil {
		return []*models.CodeChunk{moduleChunk(content, lines, base, nil, nil)}
	}
	defer tree.Close()

	var chunks []*models.CodeChunk
	var imports, exports []string

	// pre-order, children pushed in reverse
	stack := []*tree_sitter.Node{tree.RootNode()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch categorize(n.Kind()) {
		case categoryFunction:
			chunks = append(chunks, spanChunk(n, code, lines, base, models.ChunkFunction))
		case categoryClass:
			chunks = append(chunks, spanChunk(n, code, lines, base, models.ChunkClass))
		case categoryImport:
			imports = append(imports, nodeText(n, code))
		case categoryExport:
			exports = append(exports, nodeText(n, code))
		case categoryOther:
		}

		for i := n.ChildCount(); i > 0; i-- {
			if c := n.Child(i - 1); c != nil {
				stack = append(stack, c)
			}
		}
	}

	if len(chunks) == 0 {
		return []*models.CodeChunk{moduleChunk(content, lines, base, imports, exports)}
	}
	return chunks
}

func (p *TSParser) parse(code []byte, language string) *tree_sitter.Tree {
	lang, ok := p.grammars[language]
	if !ok {
		return nil
	}
	ts := tree_sitter.NewParser()
	defer ts.Close()
	if err := ts.SetLanguage(lang); err != nil {
		return nil
	}
	return ts.Parse(code, nil)
}

func spanChunk(
	n *tree_sitter.Node,
	code []byte,
	lines []string,
	base models.ChunkMetadata,
	kind models.ChunkKind,
) *models.CodeChunk {
	startLine := int(n.StartPosition().Row) + 1
	endLine := int(n.EndPosition().Row) + 1
	name := anonymous
	if c := n.ChildByFieldName("name"); c != nil {
		name = nodeText(c, code)
	}
	md := base
	md.StartLine = startLine
	md.EndLine = endLine
	md.Symbols = []string{name}
	md.Imports = []string{}
	md.Exports = []string{}
	return &models.CodeChunk{
		ID:       uuid.NewString(),
		Content:  sliceLines(lines, startLine, endLine),
		Kind:     kind,
		Metadata: md,
	}
}

func moduleChunk(
	content string,
	lines []string,
	base models.ChunkMetadata,
	imports, exports []string,
) *models.CodeChunk {
	md := base
	md.StartLine = 1
	md.EndLine = len(lines)
	md.Symbols = []string{}
	md.Imports = nonNil(imports)
	md.Exports = nonNil(exports)
	return &models.CodeChunk{
		ID:       uuid.NewString(),
		Content:  content,
		Kind:     models.ChunkModule,
		Metadata: md,
	}
}

// sliceLines returns lines [start, end], 1-indexed and inclusive.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

func nodeText(n *tree_sitter.Node, code []byte) string {
	return string(code[n.StartByte():n.EndByte()])
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ parser.Extractor = (*TSParser)(nil)
