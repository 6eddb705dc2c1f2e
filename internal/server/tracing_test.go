package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

type resolverFunc func(ctx context.Context, req types.ResolutionRequest) (types.Outcome, error)

func (f resolverFunc) Resolve(ctx context.Context, req types.ResolutionRequest) (types.Outcome, error) {
	return f(ctx, req)
}

func TestTracing_SpanPerRequest(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	fail := false
	res := resolverFunc(func(ctx context.Context, req types.ResolutionRequest) (types.Outcome, error) {
		outcome := types.AutoMap(piano, 1.0, false)
		observability.SpanObserver{}.Observe(ctx, observability.Event{
			Stage:   observability.StageDecision,
			Summary: &observability.Summary{Outcome: outcome},
		})
		if fail {
			return types.Outcome{}, errors.New("embedding API unavailable")
		}
		return outcome, nil
	})
	s := newTestServer(t, res, Config{})

	w := do(s, http.MethodPost, "/resolve-skill", `{"text":"piano"}`)
	require.Equal(t, http.StatusOK, w.Code)

	fail = true
	w = do(s, http.MethodPost, "/resolve-skill", `{"text":"piano"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	ok := ended[0]
	assert.Equal(t, "POST /resolve-skill", ok.Name())
	assert.NotEqual(t, codes.Error, ok.Status().Code)
	require.Len(t, ok.Events(), 1)
	assert.Equal(t, string(observability.StageDecision), ok.Events()[0].Name)

	attrs := make(map[string]string)
	for _, kv := range ok.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "POST", attrs["http.method"])
	assert.Equal(t, "200", attrs["http.status_code"])
	assert.Equal(t, "auto_map", attrs["skillsy.outcome"])
	assert.Len(t, attrs["skillsy.request_id"], 36)

	assert.Equal(t, codes.Error, ended[1].Status().Code)
}
