// Package classify assigns an embedding to the closest broad root category.
// It is the fallback used when no catalog concept is a confident match.
package classify

import (
	"fmt"
	"strings"

	"github.com/Cyber-morocco/Skillsy/internal/textnorm"
	"github.com/Cyber-morocco/Skillsy/internal/types"
	"github.com/Cyber-morocco/Skillsy/internal/vectorindex"
)

// Similarity is the cosine similarity of a query to one category.
type Similarity struct {
	CategoryID string  `json:"categoryId"`
	Score      float64 `json:"score"`
}

// Result is a classification: the winning category and the full score table.
type Result struct {
	Category     types.RootCategory
	Similarities []Similarity
}

// Classifier holds root categories and their precomputed embeddings.
type Classifier struct {
	categories []types.RootCategory
	embeddings [][]float32
}

// New pairs categories with their embeddings, position by position.
func New(categories []types.RootCategory, embeddings [][]float32) (*Classifier, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("classifier requires at least one root category")
	}
	if len(categories) != len(embeddings) {
		return nil, fmt.Errorf("got %d embeddings for %d root categories", len(embeddings), len(categories))
	}
	c := &Classifier{
		categories: append([]types.RootCategory(nil), categories...),
		embeddings: make([][]float32, len(embeddings)),
	}
	for i, e := range embeddings {
		c.embeddings[i] = append([]float32(nil), e...)
	}
	return c, nil
}

// Classify returns the category most similar to vec. Ties go to the earlier
// category, so it always returns exactly one category.
func (c *Classifier) Classify(vec []float32) Result {
	sims := make([]Similarity, len(c.categories))
	best := 0
	for i, e := range c.embeddings {
		sims[i] = Similarity{CategoryID: c.categories[i].ID, Score: vectorindex.Cosine(vec, e)}
		if sims[i].Score > sims[best].Score {
			best = i
		}
	}
	return Result{Category: c.categories[best], Similarities: sims}
}

// RootLabel derives a short display label from a category description: the
// first comma separated segment, capitalised.
func RootLabel(category types.RootCategory) string {
	first, _, _ := strings.Cut(category.Description, ",")
	return textnorm.Capitalize(strings.TrimSpace(first))
}
