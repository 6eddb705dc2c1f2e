package observability

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Cyber-morocco/Skillsy/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode. It implements Observer
// so it can be attached to an engine directly.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Observe prints a box for each stage event.
func (p *Printer) Observe(_ context.Context, e Event) {
	switch e.Stage {
	case StageExactMatch:
		p.printBox("EXACT MATCH", fmt.Sprintf("Input:    %s\nMatched:  %t", e.Text, e.Hit))
	case StageShortcut:
		if e.Hit {
			p.printBox("SHORTCUT EXPANSION", "Expanded: "+e.Text)
		}
	case StageEnrichment:
		p.PrintEnrichment(e)
	case StageScoring:
		p.PrintCandidates(e.Candidates)
	case StageClassification:
		p.PrintSimilarities(e)
	case StageDecision:
		if e.Summary != nil {
			p.PrintOutcome(e.Summary.Outcome)
		}
	}
}

// PrintEnrichment outputs the lookup attempts and the passage used.
func (p *Printer) PrintEnrichment(e Event) {
	var sb strings.Builder
	for _, a := range e.Attempts {
		status := "none"
		switch {
		case a.Err != "":
			status = "failed"
		case a.Found:
			status = "found"
		}
		label := a.Source
		if a.Language != "" {
			label += " (" + a.Language + ")"
		}
		sb.WriteString(fmt.Sprintf("• %-22s %-6s %s\n", label, status, a.Elapsed.Round(time.Millisecond)))
	}
	sb.WriteString("\n")
	if e.Hit {
		sb.WriteString(fmt.Sprintf("Passage from %s:\n", e.Source))
		sb.WriteString(truncate(e.Text, 2*(boxWidth-4)))
	} else {
		sb.WriteString("No passage, using input text")
	}
	p.printBox("WEB ENRICHMENT", sb.String())
}

// PrintCandidates outputs ranked candidates with their score breakdown.
func (p *Printer) PrintCandidates(candidates []types.Candidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		sb.WriteString(fmt.Sprintf("#%d  %s (%s)\n", i+1, c.Concept.Label, c.Concept.ID))
		sb.WriteString(fmt.Sprintf("    Total: %.4f\n", c.TotalScore))
		sb.WriteString(fmt.Sprintf("    Sem %.4f  Fuz %.4f  Pop %.4f", c.SemanticScore, c.FuzzyScore, c.PopularityScore))
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}
	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(candidates)-maxItemsToShow))
	}

	p.printBox("CANDIDATES", sb.String())
}

// PrintSimilarities outputs the root category similarity table.
func (p *Printer) PrintSimilarities(e Event) {
	if len(e.Similarities) == 0 {
		return
	}
	var sb strings.Builder
	for i, s := range e.Similarities {
		sb.WriteString(fmt.Sprintf("%-12s %.4f", s.CategoryID, s.Score))
		if i < len(e.Similarities)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("ROOT CATEGORY SIMILARITIES", sb.String())
}

// PrintOutcome outputs the final decision.
func (p *Printer) PrintOutcome(outcome types.Outcome) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Type:     %s\n", outcome.Type))
	switch outcome.Type {
	case types.OutcomeAutoMap:
		if outcome.Match != nil {
			sb.WriteString(fmt.Sprintf("Concept:  %s (%s)\n", outcome.Match.Concept.Label, outcome.Match.Concept.ID))
			sb.WriteString(fmt.Sprintf("Score:    %.4f\n", outcome.Match.Score))
		}
	case types.OutcomeNudge:
		sb.WriteString("Suggestions:\n")
		for _, c := range outcome.Suggestions {
			sb.WriteString(fmt.Sprintf("  • %s (%.4f)\n", c.Concept.Label, c.TotalScore))
		}
	case types.OutcomeDiscovery:
		if outcome.Proposed != nil {
			sb.WriteString(fmt.Sprintf("Label:    %s\n", outcome.Proposed.Label))
			sb.WriteString(fmt.Sprintf("Root:     %s (%s)\n", outcome.Proposed.RootLabel, outcome.Proposed.RootID))
		}
	}
	sb.WriteString(fmt.Sprintf("Web:      %t", outcome.IsWebAugmented))

	p.printBox("RESOLUTION OUTCOME", sb.String())
}
