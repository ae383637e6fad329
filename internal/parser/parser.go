package parser

import "github.com/0x5457/codesearch/internal/models"

// Extractor splits one file into chunks. Extraction never fails: content the
// extractor cannot parse comes back as a single module chunk.
type Extractor interface {
	Extract(path, content, language string) []*models.CodeChunk
	// Languages lists the declared languages the extractor has grammars for.
	Languages() []string
}
