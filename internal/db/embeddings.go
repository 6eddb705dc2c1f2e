package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

const embeddingCacheSQL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS embedding_cache (
    model_id   TEXT NOT NULL,
    text       TEXT NOT NULL,
    embedding  vector NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (model_id, text)
);
`

// EnsureEmbeddingCache creates the pgvector extension and the cache table.
// It is separate from EnsureSchema so deployments without pgvector can still
// store catalogs and traces.
func (db *DB) EnsureEmbeddingCache(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, embeddingCacheSQL); err != nil {
		return fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return nil
}

// LookupEmbeddings returns the cached vectors for texts under modelID.
// Texts without a cached vector are absent from the result.
func (db *DB) LookupEmbeddings(ctx context.Context, modelID string, texts []string) (map[string][]float32, error) {
	found := make(map[string][]float32)
	if len(texts) == 0 {
		return found, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT text, embedding FROM embedding_cache WHERE model_id = $1 AND text = ANY($2)`,
		modelID, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to query embedding cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var text string
		var vec pgvector.Vector
		if err := rows.Scan(&text, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan cached embedding: %w", err)
		}
		found[text] = vec.Slice()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}
	return found, nil
}

// StoreEmbeddings upserts one vector per text under modelID.
func (db *DB) StoreEmbeddings(ctx context.Context, modelID string, texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("got %d vectors for %d texts", len(vectors), len(texts))
	}
	if len(texts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, text := range texts {
		batch.Queue(
			`INSERT INTO embedding_cache (model_id, text, embedding) VALUES ($1, $2, $3)
			 ON CONFLICT (model_id, text) DO UPDATE SET embedding = EXCLUDED.embedding, created_at = NOW()`,
			modelID, text, pgvector.NewVector(vectors[i]))
	}
	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to store embeddings: %w", err)
	}
	return nil
}
