package parserfx

import (
	"github.com/0x5457/codesearch/internal/parser"
	"github.com/0x5457/codesearch/internal/parser/tsparser"
	"go.uber.org/fx"
)

// NewExtractor creates the tree-sitter chunk extractor
func NewExtractor() parser.Extractor {
	return tsparser.New()
}

// Module provides parser components
var Module = fx.Module("parser",
	fx.Provide(NewExtractor),
)
