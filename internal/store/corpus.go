package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/culturiqai/nalanda/internal/domain"
)

const corpusDDL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS corpus_chunks (
    id         BIGSERIAL PRIMARY KEY,
    document   TEXT NOT NULL,
    content    TEXT NOT NULL,
    embedding  vector(1536),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// CorpusStore holds reference-text chunks with embeddings for
// retrieval-augmented schema proposal.
type CorpusStore struct {
	db       *pgxpool.Pool
	embedder domain.EmbeddingClient
}

func NewCorpusStore(ctx context.Context, db *pgxpool.Pool, embedder domain.EmbeddingClient) (*CorpusStore, error) {
	if _, err := db.Exec(ctx, corpusDDL); err != nil {
		return nil, fmt.Errorf("create corpus table: %w", err)
	}
	return &CorpusStore{db: db, embedder: embedder}, nil
}

// AddDocument splits a document into paragraph chunks, embeds each,
// and stores them under the given document name.
func (s *CorpusStore) AddDocument(ctx context.Context, document, content string) (int, error) {
	chunks := splitParagraphs(content)
	for _, chunk := range chunks {
		emb, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("embed chunk of %q: %w", document, err)
		}
		_, err = s.db.Exec(ctx,
			`INSERT INTO corpus_chunks (document, content, embedding) VALUES ($1, $2, $3)`,
			document, chunk, pgvector.NewVector(emb))
		if err != nil {
			return 0, fmt.Errorf("insert chunk of %q: %w", document, err)
		}
	}
	return len(chunks), nil
}

// Search returns the k chunk texts nearest to the query embedding.
func (s *CorpusStore) Search(ctx context.Context, embedding []float32, k int) ([]string, error) {
	if k <= 0 {
		k = 3
	}
	rows, err := s.db.Query(ctx,
		`SELECT content FROM corpus_chunks ORDER BY embedding <=> $1 LIMIT $2`,
		pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("corpus search: %w", err)
	}
	defer rows.Close()

	var chunks []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan corpus row: %w", err)
		}
		chunks = append(chunks, content)
	}
	return chunks, rows.Err()
}

func splitParagraphs(content string) []string {
	var out []string
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			out = append(out, para)
		}
	}
	return out
}
