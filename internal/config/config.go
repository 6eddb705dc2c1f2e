// Package config provides configuration loading and validation for the
// skill resolution service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Cyber-morocco/Skillsy/internal/embedding"
	"github.com/Cyber-morocco/Skillsy/internal/enrich"
	"github.com/Cyber-morocco/Skillsy/internal/resolver"
	"github.com/Cyber-morocco/Skillsy/internal/scoring"
)

// Catalog sources.
const (
	CatalogSeed     = "seed"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// DefaultPort matches the port the mobile client is configured for.
const DefaultPort = 8000

// Duration is a time.Duration that reads "3s"-style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer: %s", b)
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the service configuration. It can be loaded from a JSON
// file; environment variables override file values.
type Config struct {
	// Server
	Port    int `json:"port,omitempty"`
	Workers int `json:"workers,omitempty"` // Concurrent resolutions

	// Catalog
	CatalogSource  string `json:"catalog_source,omitempty"`  // seed, file or postgres
	CatalogPath    string `json:"catalog_path,omitempty"`    // JSON or YAML snapshot
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL connection URL
	TraceStore     bool   `json:"trace_store,omitempty"`     // Persist resolution traces
	EmbeddingCache bool   `json:"embedding_cache,omitempty"` // Cache label embeddings in pgvector

	// Embeddings
	EmbeddingsProvider string `json:"embeddings_provider,omitempty"`
	EmbeddingsModel    string `json:"embeddings_model,omitempty"`
	EmbeddingsBaseURL  string `json:"embeddings_base_url,omitempty"`
	APIKey             string `json:"api_key,omitempty"`

	// Enrichment
	DisableEnrichment bool     `json:"disable_enrichment,omitempty"`
	EnrichTimeout     Duration `json:"enrich_timeout,omitempty"`
	EnrichUserAgent   string   `json:"enrich_user_agent,omitempty"`
	FallbackLanguage  string   `json:"fallback_language,omitempty"`

	// Decision tuning
	AutoMapThreshold  float64 `json:"auto_map_threshold,omitempty"`
	NudgeThreshold    float64 `json:"nudge_threshold,omitempty"`
	WeightSemantic    float64 `json:"weight_semantic,omitempty"`
	WeightFuzzy       float64 `json:"weight_fuzzy,omitempty"`
	WeightPopularity  float64 `json:"weight_popularity,omitempty"`
	PopularityDivisor float64 `json:"popularity_divisor,omitempty"`
	TopK              int     `json:"top_k,omitempty"`

	// Shortcut expansion
	Shortcuts      []string `json:"shortcuts,omitempty"`       // Bare tokens that get the suffix
	ShortcutSuffix string   `json:"shortcut_suffix,omitempty"` // Appended to a matching token
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	rc := resolver.DefaultConfig()
	return Config{
		Port:               DefaultPort,
		Workers:            runtime.NumCPU(),
		CatalogSource:      CatalogSeed,
		EmbeddingsProvider: embedding.ProviderGemini,
		EnrichTimeout:      Duration(3 * time.Second),
		FallbackLanguage:   enrich.DefaultFallbackLanguage,
		AutoMapThreshold:   rc.AutoMapThreshold,
		NudgeThreshold:     rc.NudgeThreshold,
		WeightSemantic:     rc.Scoring.Weights.Semantic,
		WeightFuzzy:        rc.Scoring.Weights.Fuzzy,
		WeightPopularity:   rc.Scoring.Weights.Popularity,
		PopularityDivisor:  rc.Scoring.PopularityDivisor,
		TopK:               rc.TopK,
		Shortcuts:          rc.Shortcuts,
		ShortcutSuffix:     rc.ShortcutSuffix,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the optional JSON
// file at path, then environment variables. The result is validated.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = file.MergeWithDefaults(cfg)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv() {
	c.Port = EnvInt("PORT", c.Port)
	c.Workers = EnvInt("RESOLVE_WORKERS", c.Workers)

	c.CatalogSource = EnvString("CATALOG_SOURCE", c.CatalogSource)
	c.CatalogPath = EnvString("CATALOG_PATH", c.CatalogPath)
	c.DatabaseURL = EnvString("DATABASE_URL", c.DatabaseURL)
	c.TraceStore = EnvBool("TRACE_STORE_ENABLED", c.TraceStore)
	c.EmbeddingCache = EnvBool("EMBEDDING_CACHE_ENABLED", c.EmbeddingCache)

	c.EmbeddingsProvider = EnvString("EMBEDDINGS_PROVIDER", c.EmbeddingsProvider)
	c.EmbeddingsModel = EnvString("EMBEDDINGS_MODEL", c.EmbeddingsModel)
	c.EmbeddingsBaseURL = EnvString("EMBEDDINGS_BASE_URL", c.EmbeddingsBaseURL)
	c.APIKey = EnvString("EMBEDDINGS_API_KEY", c.APIKey)
	if c.APIKey == "" {
		c.APIKey = EnvString("GEMINI_API_KEY", "")
	}

	c.DisableEnrichment = !EnvBool("ENRICH_ENABLED", !c.DisableEnrichment)
	c.EnrichTimeout = Duration(EnvDuration("ENRICH_TIMEOUT", time.Duration(c.EnrichTimeout)))
	c.EnrichUserAgent = EnvString("ENRICH_USER_AGENT", c.EnrichUserAgent)
	c.FallbackLanguage = EnvString("ENRICH_FALLBACK_LANGUAGE", c.FallbackLanguage)

	c.AutoMapThreshold = EnvFloat("AUTO_MAP_THRESHOLD", c.AutoMapThreshold)
	c.NudgeThreshold = EnvFloat("NUDGE_THRESHOLD", c.NudgeThreshold)
	c.WeightSemantic = EnvFloat("WEIGHT_SEMANTIC", c.WeightSemantic)
	c.WeightFuzzy = EnvFloat("WEIGHT_FUZZY", c.WeightFuzzy)
	c.WeightPopularity = EnvFloat("WEIGHT_POPULARITY", c.WeightPopularity)
	c.PopularityDivisor = EnvFloat("POPULARITY_DIVISOR", c.PopularityDivisor)
	c.TopK = EnvInt("TOP_K", c.TopK)
	c.Shortcuts = EnvList("SHORTCUTS", c.Shortcuts)
	c.ShortcutSuffix = EnvString("SHORTCUT_SUFFIX", c.ShortcutSuffix)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config error: 'workers' must be positive")
	}

	switch c.CatalogSource {
	case CatalogSeed:
	case CatalogFile:
		if c.CatalogPath == "" {
			return fmt.Errorf("config error: catalog source %q requires 'catalog_path'", c.CatalogSource)
		}
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	case CatalogPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: catalog source %q requires 'database_url'", c.CatalogSource)
		}
	default:
		return fmt.Errorf("config error: unknown catalog source %q", c.CatalogSource)
	}
	if c.TraceStore && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'trace_store' requires 'database_url'")
	}
	if c.EmbeddingCache && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'embedding_cache' requires 'database_url'")
	}

	switch c.EmbeddingsProvider {
	case embedding.ProviderGemini, embedding.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unsupported embeddings provider %q", c.EmbeddingsProvider)
	}

	if c.EnrichTimeout <= 0 {
		return fmt.Errorf("config error: 'enrich_timeout' must be positive")
	}

	if err := c.ResolverConfig().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer config file values over the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.CatalogSource, defaults.CatalogSource)
	mergeString(&result.CatalogPath, defaults.CatalogPath)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.EmbeddingsProvider, defaults.EmbeddingsProvider)
	mergeString(&result.EmbeddingsModel, defaults.EmbeddingsModel)
	mergeString(&result.EmbeddingsBaseURL, defaults.EmbeddingsBaseURL)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.EnrichUserAgent, defaults.EnrichUserAgent)
	mergeString(&result.FallbackLanguage, defaults.FallbackLanguage)
	mergeString(&result.ShortcutSuffix, defaults.ShortcutSuffix)
	if len(result.Shortcuts) == 0 {
		result.Shortcuts = append([]string(nil), defaults.Shortcuts...)
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.EnrichTimeout == 0 {
		result.EnrichTimeout = defaults.EnrichTimeout
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.PopularityDivisor == 0 {
		result.PopularityDivisor = defaults.PopularityDivisor
	}
	// Each threshold falls back on its own; an inverted pair fails Validate
	if result.AutoMapThreshold == 0 {
		result.AutoMapThreshold = defaults.AutoMapThreshold
	}
	if result.NudgeThreshold == 0 {
		result.NudgeThreshold = defaults.NudgeThreshold
	}
	// Weights only make sense as a set; a partial set fails Validate
	if result.WeightSemantic == 0 && result.WeightFuzzy == 0 && result.WeightPopularity == 0 {
		result.WeightSemantic = defaults.WeightSemantic
		result.WeightFuzzy = defaults.WeightFuzzy
		result.WeightPopularity = defaults.WeightPopularity
	}

	// Bool fields: cannot distinguish unset from false, so the file value wins

	return result
}

func mergeString(field *string, fallback string) {
	if strings.TrimSpace(*field) == "" {
		*field = fallback
	}
}

// NeedsDatabase reports whether any configured feature uses PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.CatalogSource == CatalogPostgres || c.TraceStore || c.EmbeddingCache
}

// ResolverConfig returns the engine configuration.
func (c *Config) ResolverConfig() resolver.Config {
	rc := resolver.DefaultConfig()
	rc.AutoMapThreshold = c.AutoMapThreshold
	rc.NudgeThreshold = c.NudgeThreshold
	rc.TopK = c.TopK
	rc.Shortcuts = append([]string(nil), c.Shortcuts...)
	rc.ShortcutSuffix = c.ShortcutSuffix
	rc.Scoring = scoring.Config{
		Weights: scoring.Weights{
			Semantic:   c.WeightSemantic,
			Fuzzy:      c.WeightFuzzy,
			Popularity: c.WeightPopularity,
		},
		PopularityDivisor: c.PopularityDivisor,
	}
	return rc
}

// EmbeddingConfig returns the embeddings provider configuration.
func (c *Config) EmbeddingConfig() *embedding.Config {
	return &embedding.Config{
		Provider: c.EmbeddingsProvider,
		Model:    c.EmbeddingsModel,
		APIKey:   c.APIKey,
		BaseURL:  c.EmbeddingsBaseURL,
	}
}

// EnrichConfig returns the enrichment configuration.
func (c *Config) EnrichConfig() enrich.Config {
	return enrich.Config{
		Timeout:          time.Duration(c.EnrichTimeout),
		UserAgent:        c.EnrichUserAgent,
		FallbackLanguage: c.FallbackLanguage,
	}
}
