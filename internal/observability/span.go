package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/Cyber-morocco/Skillsy/internal/observability")

// StartSpan starts a span on the global tracer provider. Without an SDK
// installed the span is a no-op.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// SpanObserver records each stage as an event on the span carried by ctx.
type SpanObserver struct{}

// Observe adds a span event for the stage. Decision events also set the
// outcome on the span itself.
func (SpanObserver) Observe(ctx context.Context, e Event) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{attribute.Int64("elapsed_ms", e.Elapsed.Milliseconds())}
	switch e.Stage {
	case StageExactMatch, StageShortcut:
		attrs = append(attrs, attribute.Bool("hit", e.Hit))
	case StageEnrichment:
		attrs = append(attrs,
			attribute.Bool("augmented", e.Hit),
			attribute.String("source", e.Source),
			attribute.Int("attempts", len(e.Attempts)),
		)
	case StageScoring:
		attrs = append(attrs, attribute.Int("candidates", len(e.Candidates)))
		if len(e.Candidates) > 0 {
			attrs = append(attrs,
				attribute.String("best_concept", e.Candidates[0].Concept.ID),
				attribute.Float64("best_score", e.Candidates[0].TotalScore),
			)
		}
	case StageClassification:
		best := -1
		for i, s := range e.Similarities {
			if best < 0 || s.Score > e.Similarities[best].Score {
				best = i
			}
		}
		if best >= 0 {
			attrs = append(attrs,
				attribute.String("root_id", e.Similarities[best].CategoryID),
				attribute.Float64("similarity", e.Similarities[best].Score),
			)
		}
	case StageDecision:
		if e.Summary != nil {
			outcome := []attribute.KeyValue{
				attribute.String("skillsy.outcome", string(e.Summary.Outcome.Type)),
				attribute.Bool("skillsy.web_augmented", e.Summary.WebAugmented),
			}
			span.SetAttributes(outcome...)
			attrs = append(attrs, outcome...)
		}
	}
	span.AddEvent(string(e.Stage), trace.WithAttributes(attrs...))
}
