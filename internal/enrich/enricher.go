package enrich

import (
	"context"
	"log"
	"time"

	"github.com/Cyber-morocco/Skillsy/internal/fetch"
	"github.com/Cyber-morocco/Skillsy/internal/textnorm"
)

// DefaultFallbackLanguage is the wiki language tried after the request's own.
const DefaultFallbackLanguage = "en"

// Result is the outcome of an enrichment attempt.
type Result struct {
	Text      string
	Augmented bool
	// Source names the knowledge source that supplied Text, empty when not augmented.
	Source string
	// Attempts lists the lookups actually made, in order.
	Attempts []Attempt
}

// Attempt records one lookup in the chain.
type Attempt struct {
	Source   string        `json:"source"`
	Language string        `json:"language,omitempty"`
	Found    bool          `json:"found"`
	Err      string        `json:"error,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// step is one configured lookup. Fallback steps query in the fallback language.
type step struct {
	source   Source
	fallback bool
}

// Config configures an Enricher.
type Config struct {
	Timeout          time.Duration
	UserAgent        string
	FallbackLanguage string
	Logger           *log.Logger
}

// Enricher runs the lookup chain: instant answer first, then the encyclopedia
// in the request language, then the encyclopedia in the fallback language.
// The first non-empty passage wins.
type Enricher struct {
	steps    []step
	timeout  time.Duration
	fallback string
	logger   *log.Logger
}

// New creates an Enricher over the public DuckDuckGo and Wikipedia endpoints.
func New(cfg Config) *Enricher {
	opts := fetch.DefaultOptions()
	if cfg.Timeout > 0 {
		opts.Timeout = cfg.Timeout
	}
	if cfg.UserAgent != "" {
		opts.UserAgent = cfg.UserAgent
	}
	wiki := &Wikipedia{Options: opts}
	return NewWithSources(cfg, &DuckDuckGo{Options: opts}, wiki)
}

// NewWithSources builds the chain from an instant answer source and an
// encyclopedia source. Either may be nil to skip it.
func NewWithSources(cfg Config, instant, encyclopedia Source) *Enricher {
	e := &Enricher{
		timeout:  cfg.Timeout,
		fallback: cfg.FallbackLanguage,
		logger:   cfg.Logger,
	}
	if e.timeout <= 0 {
		e.timeout = fetch.DefaultTimeout
	}
	if e.fallback == "" {
		e.fallback = DefaultFallbackLanguage
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if instant != nil {
		e.steps = append(e.steps, step{source: instant})
	}
	if encyclopedia != nil {
		e.steps = append(e.steps, step{source: encyclopedia}, step{source: encyclopedia, fallback: true})
	}
	return e
}

// Enrich returns the first passage found for text, or text itself with
// Augmented false. Each lookup gets its own timeout and is tried once.
func (e *Enricher) Enrich(ctx context.Context, text, locale string) Result {
	lang := textnorm.BaseLanguage(locale, e.fallback)
	result := Result{Text: text}
	tried := make(map[string]bool, len(e.steps))

	for _, s := range e.steps {
		stepLang := lang
		if s.fallback {
			stepLang = e.fallback
		}
		key := s.source.Name() + "/" + stepLang
		if tried[key] {
			continue
		}
		tried[key] = true

		attempt := e.lookup(ctx, s.source, text, stepLang)
		result.Attempts = append(result.Attempts, attempt.Attempt)
		if attempt.passage != "" {
			result.Text = attempt.passage
			result.Augmented = true
			result.Source = s.source.Name()
			return result
		}
	}
	return result
}

type lookupResult struct {
	Attempt
	passage string
}

func (e *Enricher) lookup(ctx context.Context, source Source, text, lang string) lookupResult {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	passage, err := source.Lookup(attemptCtx, text, lang)
	res := lookupResult{
		Attempt: Attempt{Source: source.Name(), Language: lang, Elapsed: time.Since(start)},
	}
	if err != nil {
		e.logger.Printf("[enrich] warning: %s (%s) lookup for %q failed: %v", source.Name(), lang, text, err)
		res.Err = err.Error()
		return res
	}
	res.Found = passage != ""
	res.passage = passage
	return res
}
