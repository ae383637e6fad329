package embeddings_test

import (
	"math"
	"testing"

	"github.com/0x5457/codesearch/internal/embeddings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_HashEmbedder_Deterministic(t *testing.T) {
	e := embeddings.NewHash()
	v1 := e.Embed("function greet(name) { return name }")
	v2 := e.Embed("function greet(name) { return name }")
	if len(v1) != embeddings.Dimension || len(v2) != embeddings.Dimension {
		t.Fatalf("unexpected dim")
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("vectors differ at %d", i)
		}
	}
}

func Test_HashEmbedder_UnitNorm(t *testing.T) {
	v := embeddings.NewHash().Embed("alpha beta gamma alpha")
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func Test_HashEmbedder_CaseAndWhitespaceInsensitive(t *testing.T) {
	e := embeddings.NewHash()
	assert.Equal(t, e.Embed("Hello World"), e.Embed("  hello\n\tworld "))
}

func Test_HashEmbedder_EmptyTextIsZeroVector(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		v := embeddings.NewHash().Embed(text)
		require.Len(t, v, embeddings.Dimension)
		for i, x := range v {
			if x != 0 {
				t.Fatalf("text %q: component %d = %v", text, i, x)
			}
		}
	}
}

func Test_HashEmbedder_BucketCounts(t *testing.T) {
	// "a" hashes to 97 and "b" to 98; each token lands in its own bucket.
	v := embeddings.NewHash().Embed("a a b")
	want := 2 / math.Sqrt(5)
	assert.InDelta(t, want, v[97], 1e-6)
	assert.InDelta(t, 1/math.Sqrt(5), v[98], 1e-6)
}

func Test_HashEmbedder_WrapsLongTokens(t *testing.T) {
	long := "averyveryveryverylongidentifiernamethatoverflowsthirtytwobits"
	v := embeddings.NewHash().Embed(long)
	nonZero := 0
	for _, x := range v {
		if x != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 1, nonZero)
}

func Test_Similarity(t *testing.T) {
	e := embeddings.NewHash()
	v := e.Embed("export function debounce wait")
	assert.InDelta(t, 1.0, embeddings.Similarity(v, v), 1e-6)

	zero := make([]float32, embeddings.Dimension)
	assert.Equal(t, 0.0, embeddings.Similarity(v, zero))
	assert.Equal(t, 0.0, embeddings.Similarity(zero, v))
	assert.Equal(t, 0.0, embeddings.Similarity(v, v[:64]))

	other := e.Embed("completely unrelated words here")
	s := embeddings.Similarity(v, other)
	assert.GreaterOrEqual(t, s, -1.0)
	assert.LessOrEqual(t, s, 1.0)
}
