// Package embedding converts text into fixed-dimension vectors using a
// remote model. Providers are safe for concurrent use.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider names accepted by NewFromConfig.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Defaults used when the configuration leaves a field empty.
const (
	DefaultGeminiModel  = "text-embedding-004"
	DefaultOpenAIModel  = "paraphrase-multilingual-MiniLM-L12-v2"
	DefaultOpenAIBase   = "https://api.openai.com/v1"
	DefaultTimeout      = 30 * time.Second
	geminiMaxBatchItems = 100
)

// ErrEmptyText is returned when asked to embed blank text.
var ErrEmptyText = errors.New("cannot embed empty text")

// Provider embeds text into a fixed-length float vector.
//
// Implementations must be deterministic for the same input text and model.
type Provider interface {
	// ModelID identifies provider and model, e.g. "gemini:text-embedding-004".
	ModelID() string
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Close releases any resources held by the provider
	Close() error
}

// Config contains the resolved embeddings configuration.
type Config struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	APIKey   string        `json:"-"`
	BaseURL  string        `json:"base_url,omitempty"`
	Timeout  time.Duration `json:"-"`
}

// NewFromConfig returns an embeddings provider.
func NewFromConfig(ctx context.Context, cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("embeddings config is nil")
	}
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGemini(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unsupported embeddings provider: %s", cfg.Provider)
	}
}

// DimensionMismatchError reports vectors of differing length from one provider.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: got %d, want %d", e.Got, e.Want)
}

// checkBatch verifies a batch response has one non-empty vector per input,
// all of the same dimension.
func checkBatch(vectors [][]float32, n int) error {
	if len(vectors) != n {
		return fmt.Errorf("embeddings response has %d vectors for %d inputs", len(vectors), n)
	}
	for _, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("embeddings response missing embedding")
		}
		if len(v) != len(vectors[0]) {
			return &DimensionMismatchError{Want: len(vectors[0]), Got: len(v)}
		}
	}
	return nil
}
