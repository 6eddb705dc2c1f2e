// Package resolver implements the skill resolution engine: exact match,
// shortcut expansion, web enrichment, blended scoring, threshold decision and
// fallback root classification.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Cyber-morocco/Skillsy/internal/catalog"
	"github.com/Cyber-morocco/Skillsy/internal/classify"
	"github.com/Cyber-morocco/Skillsy/internal/enrich"
	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/scoring"
	"github.com/Cyber-morocco/Skillsy/internal/textnorm"
	"github.com/Cyber-morocco/Skillsy/internal/types"
	"github.com/Cyber-morocco/Skillsy/internal/vectorindex"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyInput is returned for text that is blank after trimming.
var ErrEmptyInput = errors.New("text is empty")

// Embedder converts text to vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Enricher returns a descriptive passage for text, or text itself.
type Enricher interface {
	Enrich(ctx context.Context, text, locale string) enrich.Result
}

// Scorer ranks nearest-neighbour hits.
type Scorer interface {
	Score(inputLower string, hits []scoring.Hit) []types.Candidate
}

// Deps are the engine's collaborators. Catalog and Embedder are required.
type Deps struct {
	Catalog  *catalog.Catalog
	Embedder Embedder
	// Enricher may be nil, in which case text is never augmented.
	Enricher Enricher
	// Scorer defaults to a scoring.Scorer built from Config.Scoring.
	Scorer   Scorer
	Observer observability.Observer
}

// Engine resolves free text against an immutable catalog. All state is built
// in NewEngine; Resolve is safe for concurrent use.
type Engine struct {
	cfg        Config
	catalog    *catalog.Catalog
	embedder   Embedder
	enricher   Enricher
	scorer     Scorer
	observer   observability.Observer
	index      *vectorindex.FlatL2
	classifier *classify.Classifier
	shortcuts  map[string]bool
}

// NewEngine embeds every concept label and root category description and
// builds the index and classifier over them.
func NewEngine(ctx context.Context, deps Deps, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resolver config: %w", err)
	}
	if deps.Catalog == nil {
		return nil, catalog.ErrEmpty
	}
	if deps.Embedder == nil {
		return nil, fmt.Errorf("resolver requires an embedder")
	}

	e := &Engine{
		cfg:       cfg,
		catalog:   deps.Catalog,
		embedder:  deps.Embedder,
		enricher:  deps.Enricher,
		scorer:    deps.Scorer,
		observer:  deps.Observer,
		shortcuts: make(map[string]bool, len(cfg.Shortcuts)),
	}
	if e.scorer == nil {
		s, err := scoring.New(cfg.Scoring)
		if err != nil {
			return nil, err
		}
		e.scorer = s
	}
	if e.observer == nil {
		e.observer = observability.Nop
	}
	for _, s := range cfg.Shortcuts {
		e.shortcuts[textnorm.Normalize(s)] = true
	}

	categories := deps.Catalog.RootCategories()
	descriptions := make([]string, len(categories))
	for i, c := range categories {
		descriptions[i] = c.Description
	}

	var conceptVecs, categoryVecs [][]float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := deps.Embedder.EmbedBatch(gctx, deps.Catalog.Labels())
		if err != nil {
			return fmt.Errorf("failed to embed concept labels: %w", err)
		}
		conceptVecs = vecs
		return nil
	})
	g.Go(func() error {
		vecs, err := deps.Embedder.EmbedBatch(gctx, descriptions)
		if err != nil {
			return fmt.Errorf("failed to embed root categories: %w", err)
		}
		categoryVecs = vecs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index, err := vectorindex.NewFlatL2(conceptVecs)
	if err != nil {
		return nil, fmt.Errorf("failed to build concept index: %w", err)
	}
	if index.Len() != deps.Catalog.Len() {
		return nil, fmt.Errorf("got %d concept embeddings for %d concepts", index.Len(), deps.Catalog.Len())
	}
	classifier, err := classify.New(categories, categoryVecs)
	if err != nil {
		return nil, fmt.Errorf("failed to build root classifier: %w", err)
	}
	e.index = index
	e.classifier = classifier
	return e, nil
}

// Catalog returns the catalog the engine resolves against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// trace accumulates what a single resolution has seen so far.
type trace struct {
	requestID string
	req       types.ResolutionRequest
	start     time.Time
	summary   observability.Summary
}

// Resolve runs the pipeline for one request. Errors are limited to blank
// input and embedding failures; enrichment problems only lower confidence.
func (e *Engine) Resolve(ctx context.Context, req types.ResolutionRequest) (types.Outcome, error) {
	req.Normalize()
	if req.Text == "" {
		return types.Outcome{}, ErrEmptyInput
	}

	t := &trace{
		requestID: observability.RequestID(ctx),
		req:       req,
		start:     time.Now(),
	}
	t.summary.Input = req.Text
	t.summary.Locale = req.Locale

	normalized := textnorm.Normalize(req.Text)
	t.summary.Normalized = normalized

	concept, ok := e.catalog.LookupExact(normalized)
	e.emit(ctx, t, observability.Event{Stage: observability.StageExactMatch, Text: normalized, Hit: ok})
	if ok {
		return e.finish(ctx, t, types.AutoMap(concept, 1.0, false)), nil
	}

	expanded := e.expand(normalized)
	t.summary.Expanded = expanded
	e.emit(ctx, t, observability.Event{Stage: observability.StageShortcut, Text: expanded, Hit: expanded != normalized})

	enriched := e.enrich(ctx, expanded, req.Locale)
	t.summary.Enriched = enriched.Text
	t.summary.WebAugmented = enriched.Augmented
	e.emit(ctx, t, observability.Event{
		Stage:    observability.StageEnrichment,
		Text:     enriched.Text,
		Hit:      enriched.Augmented,
		Source:   enriched.Source,
		Attempts: enriched.Attempts,
	})

	vec, err := e.embedder.Embed(ctx, enriched.Text)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("failed to embed input: %w", err)
	}
	neighbors, err := e.index.Search(vec, e.cfg.TopK)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("failed to search concept index: %w", err)
	}

	hits := make([]scoring.Hit, len(neighbors))
	for i, n := range neighbors {
		hits[i] = scoring.Hit{Concept: e.catalog.Concept(n.Index), Distance: n.Distance}
	}
	candidates := e.scorer.Score(expanded, hits)
	t.summary.Candidates = candidates
	e.emit(ctx, t, observability.Event{Stage: observability.StageScoring, Candidates: candidates})

	if len(candidates) > 0 {
		best := candidates[0]
		switch e.cfg.Decide(best.TotalScore) {
		case DecideAutoMap:
			return e.finish(ctx, t, types.AutoMap(best.Concept, best.TotalScore, enriched.Augmented)), nil
		case DecideNudge:
			return e.finish(ctx, t, types.Nudge(candidates, enriched.Augmented)), nil
		}
	}

	result := e.classifier.Classify(vec)
	e.emit(ctx, t, observability.Event{Stage: observability.StageClassification, Similarities: result.Similarities})

	outcome := types.Discovery(
		textnorm.Capitalize(req.Text),
		result.Category.ID,
		classify.RootLabel(result.Category),
		enriched.Augmented,
	)
	return e.finish(ctx, t, outcome), nil
}

func (e *Engine) expand(normalized string) string {
	if !e.shortcuts[normalized] || e.cfg.ShortcutSuffix == "" {
		return normalized
	}
	return normalized + " " + strings.TrimSpace(e.cfg.ShortcutSuffix)
}

func (e *Engine) enrich(ctx context.Context, text, locale string) enrich.Result {
	if e.enricher == nil {
		return enrich.Result{Text: text}
	}
	res := e.enricher.Enrich(ctx, text, locale)
	if strings.TrimSpace(res.Text) == "" {
		return enrich.Result{Text: text, Attempts: res.Attempts}
	}
	return res
}

func (e *Engine) emit(ctx context.Context, t *trace, ev observability.Event) {
	ev.RequestID = t.requestID
	ev.Input = t.req.Text
	ev.Elapsed = time.Since(t.start)
	e.observer.Observe(ctx, ev)
}

func (e *Engine) finish(ctx context.Context, t *trace, outcome types.Outcome) types.Outcome {
	t.summary.Outcome = outcome
	t.summary.Elapsed = time.Since(t.start)
	summary := t.summary
	e.emit(ctx, t, observability.Event{Stage: observability.StageDecision, Summary: &summary})
	return outcome
}
