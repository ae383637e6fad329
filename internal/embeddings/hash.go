package embeddings

import (
	"math"
	"strings"
	"unicode/utf16"
)

// Dimension is the vector length produced by HashEmbedder.
const Dimension = 128

// HashEmbedder is a deterministic bag-of-tokens vectorizer. Each whitespace
// token is hashed into one of Dimension buckets and the bucket counts are
// L2-normalized. It stands in for a trained embedding model.
type HashEmbedder struct{}

func NewHash() *HashEmbedder { return &HashEmbedder{} }

func (e *HashEmbedder) ModelName() string { return "hash-128" }

func (e *HashEmbedder) Dimension() int { return Dimension }

func (e *HashEmbedder) Embed(text string) []float32 {
	counts := make([]float64, Dimension)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		counts[bucket(tok)]++
	}
	var norm float64
	for _, v := range counts {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, Dimension)
	if norm == 0 {
		return vec
	}
	for i, v := range counts {
		vec[i] = float32(v / norm)
	}
	return vec
}

// bucket hashes tok with a 31-based rolling hash over its UTF-16 code units,
// wrapping at 32 bits.
func bucket(tok string) int {
	var h int32
	for _, u := range utf16.Encode([]rune(tok)) {
		h = h*31 + int32(u)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs % Dimension)
}

// Similarity is the cosine similarity of a and b. It is 0 when the lengths
// differ or either vector has zero norm.
func Similarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
