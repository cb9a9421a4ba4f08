package embedder

import (
	"context"
	"crypto/sha256"
)

// MockProvider produces deterministic vectors derived from the text hash.
// It keeps tests and offline runs independent of the OpenAI API.
type MockProvider struct {
	dims int
}

// NewMockProvider creates a mock embedder with the production dimension
func NewMockProvider() *MockProvider {
	return &MockProvider{dims: OpenAIDimensions}
}

func (m *MockProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = mockVector(text, m.dims)
	}
	return vectors, nil
}

func (m *MockProvider) Dimensions() int {
	return m.dims
}

func (m *MockProvider) Close() error {
	return nil
}

// mockVector cycles the SHA-256 digest of the text across the vector, so
// equal texts embed equally and different texts almost never do.
func mockVector(text string, dims int) []float32 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = float32(sum[i%len(sum)]) / 255.0
	}
	return vec
}
