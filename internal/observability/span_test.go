package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Cyber-morocco/Skillsy/internal/classify"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestSpanObserver_RecordsStages(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "resolve")
	obs := SpanObserver{}

	obs.Observe(ctx, Event{Stage: StageExactMatch, Hit: false, Elapsed: time.Millisecond})
	obs.Observe(ctx, Event{Stage: StageScoring, Candidates: []types.Candidate{
		{Concept: piano, TotalScore: 0.62},
	}})
	obs.Observe(ctx, Event{Stage: StageClassification, Similarities: []classify.Similarity{
		{CategoryID: "muziek", Score: 0.4},
		{CategoryID: "sport", Score: 0.7},
		{CategoryID: "overig", Score: 0.7},
	}})
	obs.Observe(ctx, Event{Stage: StageDecision, Summary: &Summary{
		Outcome:      types.Discovery("Kitesurfen", "sport", "Sport", true),
		WebAugmented: true,
	}})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	events := ended[0].Events()
	require.Len(t, events, 4)
	assert.Equal(t, string(StageExactMatch), events[0].Name)
	assert.Equal(t, string(StageDecision), events[3].Name)

	scoring := attrMap(events[1].Attributes)
	assert.Equal(t, "c3", scoring["best_concept"].AsString())
	assert.InDelta(t, 0.62, scoring["best_score"].AsFloat64(), 1e-9)

	classification := attrMap(events[2].Attributes)
	assert.Equal(t, "sport", classification["root_id"].AsString(), "first maximum wins")

	spanAttrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "discovery", spanAttrs["skillsy.outcome"].AsString())
	assert.True(t, spanAttrs["skillsy.web_augmented"].AsBool())
}

func TestSpanObserver_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		SpanObserver{}.Observe(context.Background(), Event{Stage: StageDecision})
	})
}
