package embeddings

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(text string) []float32
	Dimension() int
	ModelName() string
}
