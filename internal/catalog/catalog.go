// Package catalog holds the canonical skill concepts and root categories.
// A Catalog is built once from a snapshot and is read-only afterwards, so it
// can be shared by concurrent resolutions without locking.
package catalog

import (
	"github.com/Cyber-morocco/Skillsy/internal/textnorm"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

// Snapshot is the serialised form of a catalog.
type Snapshot struct {
	Version        string               `json:"version,omitempty" yaml:"version,omitempty"`
	Concepts       []types.SkillConcept `json:"concepts" yaml:"concepts"`
	RootCategories []types.RootCategory `json:"rootCategories" yaml:"rootCategories"`
}

// Catalog is an immutable set of skill concepts and root categories.
type Catalog struct {
	version    string
	concepts   []types.SkillConcept
	categories []types.RootCategory
	byKey      map[string]int
}

// New validates a snapshot and builds a catalog from it.
func New(snapshot Snapshot) (*Catalog, error) {
	if len(snapshot.Concepts) == 0 || len(snapshot.RootCategories) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalog{
		version:    snapshot.Version,
		concepts:   make([]types.SkillConcept, len(snapshot.Concepts)),
		categories: make([]types.RootCategory, len(snapshot.RootCategories)),
		byKey:      make(map[string]int, 2*len(snapshot.Concepts)),
	}
	copy(c.concepts, snapshot.Concepts)
	copy(c.categories, snapshot.RootCategories)

	seen := make(map[string]bool, len(c.concepts))
	for _, concept := range c.concepts {
		if seen[concept.ID] {
			return nil, &DuplicateIDError{Kind: "concept", ID: concept.ID}
		}
		seen[concept.ID] = true
	}

	seenRoots := make(map[string]bool, len(c.categories))
	for _, category := range c.categories {
		if seenRoots[category.ID] {
			return nil, &DuplicateIDError{Kind: "root category", ID: category.ID}
		}
		seenRoots[category.ID] = true
	}
	if !seenRoots[types.CatchAllRootID] {
		return nil, &MissingCatchAllError{ID: types.CatchAllRootID}
	}

	// First concept in catalog order wins when a label or id collides.
	for i, concept := range c.concepts {
		for _, key := range []string{textnorm.Normalize(concept.Label), textnorm.Normalize(concept.ID)} {
			if _, exists := c.byKey[key]; !exists {
				c.byKey[key] = i
			}
		}
	}

	return c, nil
}

// LookupExact finds the concept whose label or id equals text, ignoring case
// and surrounding whitespace.
func (c *Catalog) LookupExact(text string) (types.SkillConcept, bool) {
	i, ok := c.byKey[textnorm.Normalize(text)]
	if !ok {
		return types.SkillConcept{}, false
	}
	return c.concepts[i], true
}

// Concept returns the concept at catalog position i.
func (c *Catalog) Concept(i int) types.SkillConcept {
	return c.concepts[i]
}

// Len returns the number of concepts.
func (c *Catalog) Len() int {
	return len(c.concepts)
}

// Concepts returns a copy of all concepts in catalog order.
func (c *Catalog) Concepts() []types.SkillConcept {
	out := make([]types.SkillConcept, len(c.concepts))
	copy(out, c.concepts)
	return out
}

// Labels returns concept labels in catalog order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.concepts))
	for i, concept := range c.concepts {
		labels[i] = concept.Label
	}
	return labels
}

// RootCategories returns a copy of the root categories in snapshot order.
func (c *Catalog) RootCategories() []types.RootCategory {
	out := make([]types.RootCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

// Version returns the snapshot version string, if any.
func (c *Catalog) Version() string {
	return c.version
}
