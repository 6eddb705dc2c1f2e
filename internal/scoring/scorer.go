// Package scoring ranks candidate concepts by blending semantic distance,
// lexical overlap and a popularity prior.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/Cyber-morocco/Skillsy/internal/fuzzy"
	"github.com/Cyber-morocco/Skillsy/internal/textnorm"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

// Default blend parameters.
const (
	DefaultSemanticWeight    = 0.55
	DefaultFuzzyWeight       = 0.30
	DefaultPopularityWeight  = 0.15
	DefaultPopularityDivisor = 250
)

// weightTolerance is how far the weights may drift from summing to exactly 1.
const weightTolerance = 1e-9

// Weights are the coefficients of the three signals. They must sum to 1.
type Weights struct {
	Semantic   float64 `json:"semantic"`
	Fuzzy      float64 `json:"fuzzy"`
	Popularity float64 `json:"popularity"`
}

// Config holds the scoring parameters.
type Config struct {
	Weights           Weights `json:"weights"`
	PopularityDivisor float64 `json:"popularity_divisor"`
}

// DefaultConfig returns the production blend.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Semantic:   DefaultSemanticWeight,
			Fuzzy:      DefaultFuzzyWeight,
			Popularity: DefaultPopularityWeight,
		},
		PopularityDivisor: DefaultPopularityDivisor,
	}
}

// Validate checks that the blend is a convex combination.
func (c Config) Validate() error {
	w := c.Weights
	if w.Semantic < 0 || w.Fuzzy < 0 || w.Popularity < 0 {
		return fmt.Errorf("scoring weights must be non-negative: %+v", w)
	}
	if sum := w.Semantic + w.Fuzzy + w.Popularity; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("scoring weights must sum to 1, got %.6f", sum)
	}
	if c.PopularityDivisor <= 0 {
		return fmt.Errorf("popularity divisor must be positive, got %v", c.PopularityDivisor)
	}
	return nil
}

// Hit is a nearest-neighbour result: a concept and its squared L2 distance
// from the query embedding.
type Hit struct {
	Concept  types.SkillConcept
	Distance float64
}

// Scorer computes ranked candidates. It is stateless and safe for concurrent use.
type Scorer struct {
	cfg Config
}

// New creates a Scorer after validating cfg.
func New(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// Config returns the scorer's parameters.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score turns neighbour hits into candidates ranked by descending total
// score. Equal totals keep the order of hits.
func (s *Scorer) Score(inputLower string, hits []Hit) []types.Candidate {
	candidates := make([]types.Candidate, len(hits))
	for i, hit := range hits {
		candidates[i] = s.candidate(inputLower, hit)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})
	return candidates
}

func (s *Scorer) candidate(inputLower string, hit Hit) types.Candidate {
	semantic := Semantic(hit.Distance)
	lexical := float64(fuzzy.PartialRatio(inputLower, textnorm.Normalize(hit.Concept.Label))) / 100
	popularity := Popularity(hit.Concept.UsageCount, s.cfg.PopularityDivisor)

	w := s.cfg.Weights
	return types.Candidate{
		Concept:         hit.Concept,
		SemanticScore:   semantic,
		FuzzyScore:      lexical,
		PopularityScore: popularity,
		TotalScore:      w.Semantic*semantic + w.Fuzzy*lexical + w.Popularity*popularity,
	}
}

// Semantic maps a squared distance to (0, 1]; distance 0 scores 1.
func Semantic(distance float64) float64 {
	if distance < 0 || math.IsNaN(distance) {
		distance = 0
	}
	return 1 / (1 + distance)
}

// Popularity normalises a usage count by divisor, clamped to [0, 1].
func Popularity(usage int, divisor float64) float64 {
	p := float64(usage) / divisor
	return math.Max(0, math.Min(1, p))
}
