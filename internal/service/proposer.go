package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
)

const topicContextChunks = 3

// ProposerService turns unstructured text into candidate schemas via
// the language model. Topic proposals are grounded with corpus
// retrieval when a corpus is configured.
type ProposerService struct {
	llm      domain.LLMClient
	embedder domain.EmbeddingClient
	corpus   domain.CorpusSearcher
	logger   *zap.Logger
}

// NewProposerService creates a proposer. embedder and corpus may be
// nil; topic proposals then run without retrieved context.
func NewProposerService(llm domain.LLMClient, embedder domain.EmbeddingClient, corpus domain.CorpusSearcher, logger *zap.Logger) *ProposerService {
	return &ProposerService{llm: llm, embedder: embedder, corpus: corpus, logger: logger}
}

// FromText proposes new schemas from a block of text. Candidate names
// are normalized to schema keys; an empty result means nothing to
// assimilate.
func (p *ProposerService) FromText(ctx context.Context, text string) (map[string]domain.SchemaData, error) {
	proposed, err := p.llm.ExtractSchemas(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract schemas: %w", err)
	}

	candidates := make(map[string]domain.SchemaData, len(proposed))
	for name, data := range proposed {
		candidates[NormalizeName(name)] = data
	}

	p.logger.Info("proposed schemas from text", zap.Int("count", len(candidates)))
	return candidates, nil
}

// FromTopic proposes a single schema for a topic, retrieving the most
// relevant corpus chunks as extraction context.
func (p *ProposerService) FromTopic(ctx context.Context, topic string) (*domain.SchemaData, error) {
	var chunks []string
	if p.embedder != nil && p.corpus != nil {
		embedding, err := p.embedder.Embed(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("embed topic %q: %w", topic, err)
		}
		chunks, err = p.corpus.Search(ctx, embedding, topicContextChunks)
		if err != nil {
			return nil, fmt.Errorf("corpus search for %q: %w", topic, err)
		}
	}

	data, err := p.llm.ExtractSchemaFromTopic(ctx, topic, chunks)
	if err != nil {
		return nil, fmt.Errorf("extract schema for topic %q: %w", topic, err)
	}
	if data == nil || data.Properties == nil {
		p.logger.Warn("no valid schema extracted for topic", zap.String("topic", topic))
		return nil, nil
	}

	p.logger.Info("proposed schema from topic",
		zap.String("topic", topic),
		zap.Int("context_chunks", len(chunks)))
	return data, nil
}
