package observability

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// LogObserver writes one line per event in the "[resolve]" log format.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates a LogObserver. A nil logger uses the standard logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &LogObserver{logger: logger}
}

// Observe logs the event.
func (o *LogObserver) Observe(_ context.Context, e Event) {
	o.logger.Printf("[resolve] %s%s %s", requestTag(e.RequestID), e.Stage, describe(e))
}

func requestTag(id string) string {
	if id == "" {
		return ""
	}
	return "req=" + id + " "
}

func describe(e Event) string {
	switch e.Stage {
	case StageExactMatch:
		return fmt.Sprintf("input=%q hit=%t", e.Text, e.Hit)
	case StageShortcut:
		return fmt.Sprintf("applied=%t text=%q", e.Hit, e.Text)
	case StageEnrichment:
		return fmt.Sprintf("augmented=%t source=%q attempts=%d text=%q", e.Hit, e.Source, len(e.Attempts), truncate(e.Text, 120))
	case StageScoring:
		parts := make([]string, len(e.Candidates))
		for i, c := range e.Candidates {
			parts[i] = fmt.Sprintf("%s=%.4f(sem %.4f fuz %.4f pop %.4f)",
				c.Concept.ID, c.TotalScore, c.SemanticScore, c.FuzzyScore, c.PopularityScore)
		}
		return "candidates=[" + strings.Join(parts, " ") + "]"
	case StageClassification:
		parts := make([]string, len(e.Similarities))
		for i, s := range e.Similarities {
			parts[i] = fmt.Sprintf("%s=%.4f", s.CategoryID, s.Score)
		}
		return "similarities=[" + strings.Join(parts, " ") + "]"
	case StageDecision:
		if e.Summary == nil {
			return ""
		}
		return fmt.Sprintf("outcome=%s web=%t elapsed=%s", e.Summary.Outcome.Type, e.Summary.WebAugmented, e.Summary.Elapsed)
	default:
		return ""
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
