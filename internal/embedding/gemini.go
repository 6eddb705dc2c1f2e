package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider embeds text with a Google Gemini embedding model.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	name   string
}

// NewGemini creates a Gemini embeddings provider.
func NewGemini(ctx context.Context, cfg *Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	name := cfg.Model
	if name == "" {
		name = DefaultGeminiModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.EmbeddingModel(name)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	return &GeminiProvider{client: client, model: model, name: name}, nil
}

// ModelID returns the provider-qualified model name
func (p *GeminiProvider) ModelID() string {
	return "gemini:" + p.name
}

// Embed returns the embedding of a single text
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	res, err := p.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embeddings response missing embedding")
	}
	return res.Embedding.Values, nil
}

// EmbedBatch embeds texts in chunks of at most 100, the API's batch limit.
func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiMaxBatchItems {
		end := min(start+geminiMaxBatchItems, len(texts))

		batch := p.model.NewBatch()
		for _, text := range texts[start:end] {
			if strings.TrimSpace(text) == "" {
				return nil, ErrEmptyText
			}
			batch.AddContent(genai.Text(text))
		}

		res, err := p.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to batch embed contents: %w", err)
		}
		for _, e := range res.Embeddings {
			if e == nil {
				out = append(out, nil)
				continue
			}
			out = append(out, e.Values)
		}
	}
	if err := checkBatch(out, len(texts)); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases resources held by the client
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
