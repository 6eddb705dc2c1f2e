package embedding

import (
	"context"
	"log"
)

// Store persists vectors per model and text.
type Store interface {
	LookupEmbeddings(ctx context.Context, modelID string, texts []string) (map[string][]float32, error)
	StoreEmbeddings(ctx context.Context, modelID string, texts []string, vectors [][]float32) error
}

// CachedProvider serves batch embeddings from a Store and only sends misses
// to the wrapped provider. Single embeddings, the per-request queries, are
// never cached. Store failures degrade to uncached calls.
type CachedProvider struct {
	Provider
	store  Store
	logger *log.Logger
}

// NewCached wraps p with store. A nil logger uses the standard logger.
func NewCached(p Provider, store Store, logger *log.Logger) *CachedProvider {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedProvider{Provider: p, store: store, logger: logger}
}

// EmbedBatch returns one vector per text in input order.
func (c *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	modelID := c.ModelID()

	cached, err := c.store.LookupEmbeddings(ctx, modelID, texts)
	if err != nil {
		c.logger.Printf("[embeddings] warning: cache lookup failed: %v", err)
		cached = nil
	}

	var missing []string
	seen := make(map[string]bool)
	for _, text := range texts {
		if _, ok := cached[text]; !ok && !seen[text] {
			seen[text] = true
			missing = append(missing, text)
		}
	}

	if len(missing) > 0 {
		vectors, err := c.Provider.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		if err := checkBatch(vectors, len(missing)); err != nil {
			return nil, err
		}
		if cached == nil {
			cached = make(map[string][]float32, len(missing))
		}
		for i, text := range missing {
			cached[text] = vectors[i]
		}
		if err := c.store.StoreEmbeddings(ctx, modelID, missing, vectors); err != nil {
			c.logger.Printf("[embeddings] warning: cache store failed: %v", err)
		}
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = cached[text]
	}
	if err := checkBatch(out, len(texts)); err != nil {
		return nil, err
	}
	return out, nil
}
