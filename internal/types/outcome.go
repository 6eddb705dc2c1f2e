//nolint:revive // types is a standard Go package name pattern
package types

// OutcomeType tags which branch of the resolution produced an Outcome.
type OutcomeType string

const (
	// OutcomeAutoMap is a high-confidence mapping onto an existing concept.
	OutcomeAutoMap OutcomeType = "auto_map"
	// OutcomeNudge asks a human to confirm one of the ranked suggestions.
	OutcomeNudge OutcomeType = "nudge"
	// OutcomeDiscovery proposes a new concept under a best-guess root category.
	OutcomeDiscovery OutcomeType = "discovery"
)

// Candidate is a scored catalog concept. It only lives within one resolution.
type Candidate struct {
	Concept         SkillConcept `json:"concept"`
	SemanticScore   float64      `json:"semanticScore"`
	FuzzyScore      float64      `json:"fuzzyScore"`
	PopularityScore float64      `json:"popularityScore"`
	TotalScore      float64      `json:"score"`
}

// Match is the concept chosen by an auto-map outcome.
type Match struct {
	Concept SkillConcept `json:"concept"`
	Score   float64      `json:"score"`
}

// Proposal is the new concept suggested by a discovery outcome.
type Proposal struct {
	Label     string `json:"label"`
	RootID    string `json:"rootId"`
	RootLabel string `json:"rootLabel"`
}

// Outcome is the result of a resolution. Exactly one of Match, Suggestions
// or Proposed is set, according to Type.
type Outcome struct {
	Type           OutcomeType `json:"type"`
	Match          *Match      `json:"match,omitempty"`
	Suggestions    []Candidate `json:"suggestions,omitempty"`
	Proposed       *Proposal   `json:"proposed,omitempty"`
	IsWebAugmented bool        `json:"isWebAugmented"`
}

// AutoMap builds an auto-map outcome.
func AutoMap(concept SkillConcept, score float64, webAugmented bool) Outcome {
	return Outcome{
		Type:           OutcomeAutoMap,
		Match:          &Match{Concept: concept, Score: score},
		IsWebAugmented: webAugmented,
	}
}

// Nudge builds a nudge outcome. Suggestions must already be ranked.
func Nudge(suggestions []Candidate, webAugmented bool) Outcome {
	return Outcome{
		Type:           OutcomeNudge,
		Suggestions:    suggestions,
		IsWebAugmented: webAugmented,
	}
}

// Discovery builds a discovery outcome.
func Discovery(label, rootID, rootLabel string, webAugmented bool) Outcome {
	return Outcome{
		Type:           OutcomeDiscovery,
		Proposed:       &Proposal{Label: label, RootID: rootID, RootLabel: rootLabel},
		IsWebAugmented: webAugmented,
	}
}
