package embedding

import (
	"context"
	"crypto/sha256"
)

const mockDimensions = 1536

// MockClient returns deterministic embeddings derived from the input
// text, so retrieval behavior is stable in tests and offline runs.
type MockClient struct {
	EmbedCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	m.EmbedCalls = append(m.EmbedCalls, text)

	sum := sha256.Sum256([]byte(text))
	out := make([]float32, mockDimensions)
	for i := range out {
		out[i] = float32(sum[i%len(sum)]) / 255.0
	}
	return out, nil
}
