package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

// traceSaveTimeout bounds a single trace insert.
const traceSaveTimeout = 2 * time.Second

// Trace is one persisted resolution.
type Trace struct {
	ID           uuid.UUID         `json:"id"`
	RequestID    string            `json:"request_id"`
	Input        string            `json:"input"`
	Locale       string            `json:"locale"`
	Expanded     string            `json:"expanded"`
	Enriched     string            `json:"enriched"`
	WebAugmented bool              `json:"web_augmented"`
	OutcomeType  types.OutcomeType `json:"outcome_type"`
	Outcome      types.Outcome     `json:"outcome"`
	Candidates   []types.Candidate `json:"candidates"`
	Elapsed      time.Duration     `json:"elapsed"`
	CreatedAt    time.Time         `json:"created_at"`
}

// SaveTrace inserts a trace. A nil ID is replaced with a new UUID.
func (db *DB) SaveTrace(ctx context.Context, t *Trace) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	outcome, err := json.Marshal(t.Outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}
	candidates := t.Candidates
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	candidatesJSON, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resolution_traces
		   (id, request_id, input, locale, expanded, enriched, web_augmented, outcome_type, outcome, candidates, elapsed_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		t.ID, t.RequestID, t.Input, t.Locale, t.Expanded, t.Enriched, t.WebAugmented,
		string(t.OutcomeType), outcome, candidatesJSON, t.Elapsed.Milliseconds(),
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save trace: %w", err)
	}
	return nil
}

// ListTraces returns the most recent traces, newest first.
func (db *DB) ListTraces(ctx context.Context, limit int) ([]Trace, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, request_id, input, locale, expanded, enriched, web_augmented,
		        outcome_type, outcome, candidates, elapsed_ms, created_at
		 FROM resolution_traces
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list traces: %w", err)
	}

	traces, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Trace, error) {
		var (
			t             Trace
			outcomeType   string
			outcome       []byte
			candidates    []byte
			elapsedMillis int64
		)
		if err := row.Scan(&t.ID, &t.RequestID, &t.Input, &t.Locale, &t.Expanded, &t.Enriched,
			&t.WebAugmented, &outcomeType, &outcome, &candidates, &elapsedMillis, &t.CreatedAt); err != nil {
			return t, err
		}
		t.OutcomeType = types.OutcomeType(outcomeType)
		t.Elapsed = time.Duration(elapsedMillis) * time.Millisecond
		if err := json.Unmarshal(outcome, &t.Outcome); err != nil {
			return t, fmt.Errorf("failed to unmarshal outcome: %w", err)
		}
		if err := json.Unmarshal(candidates, &t.Candidates); err != nil {
			return t, fmt.Errorf("failed to unmarshal candidates: %w", err)
		}
		return t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan traces: %w", err)
	}
	return traces, nil
}

// TraceWriter persists traces. *DB implements it.
type TraceWriter interface {
	SaveTrace(ctx context.Context, t *Trace) error
}

// TraceStore is an observer that persists the decision event of every
// resolution. Write failures are logged and never reach the caller.
type TraceStore struct {
	writer TraceWriter
	logger *log.Logger
}

// NewTraceStore creates a TraceStore. A nil logger uses the standard logger.
func NewTraceStore(writer TraceWriter, logger *log.Logger) *TraceStore {
	if logger == nil {
		logger = log.Default()
	}
	return &TraceStore{writer: writer, logger: logger}
}

// Observe implements observability.Observer.
func (s *TraceStore) Observe(ctx context.Context, e observability.Event) {
	if e.Stage != observability.StageDecision || e.Summary == nil {
		return
	}

	// The insert outlives a cancelled request but not the timeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), traceSaveTimeout)
	defer cancel()

	t := NewTrace(e)
	if err := s.writer.SaveTrace(ctx, t); err != nil {
		s.logger.Printf("[trace] warning: request %s: %v", e.RequestID, err)
	}
}

// NewTrace builds a trace row from a decision event.
func NewTrace(e observability.Event) *Trace {
	t := &Trace{RequestID: e.RequestID}
	if e.Summary == nil {
		return t
	}
	s := e.Summary
	t.Input = s.Input
	t.Locale = s.Locale
	t.Expanded = s.Expanded
	t.Enriched = s.Enriched
	t.WebAugmented = s.WebAugmented
	t.OutcomeType = s.Outcome.Type
	t.Outcome = s.Outcome
	t.Candidates = s.Candidates
	t.Elapsed = s.Elapsed
	return t
}
