package db

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

type fakeWriter struct {
	mu       sync.Mutex
	traces   []*Trace
	err      error
	deadline bool
}

func (f *fakeWriter) SaveTrace(ctx context.Context, t *Trace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.traces = append(f.traces, t)
	return nil
}

var guitar = types.SkillConcept{ID: "c1", Label: "Gitaar", RootID: "muziek", UsageCount: 120}

func decisionEvent() observability.Event {
	return observability.Event{
		RequestID: "req-1",
		Stage:     observability.StageDecision,
		Summary: &observability.Summary{
			Input:        "elektrische gitaar",
			Locale:       "nl",
			Normalized:   "elektrische gitaar",
			Expanded:     "elektrische gitaar",
			Enriched:     "De elektrische gitaar is een gitaar.",
			WebAugmented: true,
			Candidates:   []types.Candidate{{Concept: guitar, TotalScore: 0.91}},
			Outcome:      types.AutoMap(guitar, 0.91, true),
			Elapsed:      420 * time.Millisecond,
		},
	}
}

func TestNewTrace(t *testing.T) {
	trace := NewTrace(decisionEvent())

	assert.Equal(t, "req-1", trace.RequestID)
	assert.Equal(t, "elektrische gitaar", trace.Input)
	assert.Equal(t, "nl", trace.Locale)
	assert.True(t, trace.WebAugmented)
	assert.Equal(t, types.OutcomeAutoMap, trace.OutcomeType)
	assert.Equal(t, "c1", trace.Outcome.Match.Concept.ID)
	assert.Len(t, trace.Candidates, 1)
	assert.Equal(t, 420*time.Millisecond, trace.Elapsed)
}

func TestNewTrace_NoSummary(t *testing.T) {
	trace := NewTrace(observability.Event{RequestID: "req-2", Stage: observability.StageDecision})
	assert.Equal(t, "req-2", trace.RequestID)
	assert.Empty(t, trace.OutcomeType)
}

func TestTraceStore_OnlyPersistsDecisions(t *testing.T) {
	w := &fakeWriter{}
	store := NewTraceStore(w, nil)
	ctx := context.Background()

	store.Observe(ctx, observability.Event{Stage: observability.StageExactMatch})
	store.Observe(ctx, observability.Event{Stage: observability.StageScoring})
	store.Observe(ctx, observability.Event{Stage: observability.StageDecision})
	assert.Empty(t, w.traces)

	store.Observe(ctx, decisionEvent())
	require.Len(t, w.traces, 1)
	assert.Equal(t, "req-1", w.traces[0].RequestID)
	assert.True(t, w.deadline, "insert should be bounded by a timeout")
}

func TestTraceStore_SurvivesCancelledRequest(t *testing.T) {
	w := &fakeWriter{}
	store := NewTraceStore(w, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store.Observe(ctx, decisionEvent())

	assert.Len(t, w.traces, 1)
}

func TestTraceStore_LogsWriteFailures(t *testing.T) {
	var buf bytes.Buffer
	w := &fakeWriter{err: errors.New("connection refused")}
	store := NewTraceStore(w, log.New(&buf, "", 0))

	assert.NotPanics(t, func() { store.Observe(context.Background(), decisionEvent()) })
	assert.Contains(t, buf.String(), "[trace] warning: request req-1: connection refused")
}

func TestSchemaSQL(t *testing.T) {
	for _, table := range []string{"skill_concepts", "root_categories", "resolution_traces"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
