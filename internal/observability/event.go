// Package observability carries the diagnostic side channel of a resolution:
// stage events emitted by the engine and the observers that log, print or
// persist them. Observers never influence an outcome.
package observability

import (
	"context"
	"time"

	"github.com/Cyber-morocco/Skillsy/internal/classify"
	"github.com/Cyber-morocco/Skillsy/internal/enrich"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

// Stage names a step of the resolution pipeline.
type Stage string

const (
	StageExactMatch     Stage = "exact_match"
	StageShortcut       Stage = "shortcut_expansion"
	StageEnrichment     Stage = "enrichment"
	StageScoring        Stage = "scoring"
	StageClassification Stage = "classification"
	StageDecision       Stage = "decision"
)

// Event is emitted once per stage reached. Only the fields relevant to the
// stage are set.
type Event struct {
	RequestID string
	Stage     Stage
	Input     string
	// Text is the stage's working text: normalised, expanded or enriched.
	Text string
	// Hit reports an exact match, an applied shortcut or a found passage.
	Hit          bool
	Source       string
	Attempts     []enrich.Attempt
	Candidates   []types.Candidate
	Similarities []classify.Similarity
	Summary      *Summary
	Elapsed      time.Duration
}

// Summary describes a finished resolution. It is attached to the decision event.
type Summary struct {
	Input        string
	Locale       string
	Normalized   string
	Expanded     string
	Enriched     string
	WebAugmented bool
	Candidates   []types.Candidate
	Outcome      types.Outcome
	Elapsed      time.Duration
}

// Observer receives resolution events. Implementations must be safe for
// concurrent use and must not block for long.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, e Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

// Nop discards all events.
var Nop Observer = ObserverFunc(func(context.Context, Event) {})

type multi []Observer

func (m multi) Observe(ctx context.Context, e Event) {
	for _, o := range m {
		o.Observe(ctx, e)
	}
}

// Multi fans events out to every non-nil observer in order.
func Multi(observers ...Observer) Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return Nop
	case 1:
		return m[0]
	}
	return m
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
