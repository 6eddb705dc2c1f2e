package classify

import (
	"testing"

	"github.com/Cyber-morocco/Skillsy/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testCategories = []types.RootCategory{
	{ID: "muziek", Description: "muziek, instrumenten, music"},
	{ID: "sport", Description: "sport, fitness, gym"},
	{ID: "tech", Description: "technology, programmeren, software"},
	{ID: "overig", Description: "overig, divers, other"},
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	_, err = New(testCategories, [][]float32{{1}})
	assert.ErrorContains(t, err, "1 embeddings for 4")
}

func TestClassify(t *testing.T) {
	c, err := New(testCategories, [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
	require.NoError(t, err)

	res := c.Classify([]float32{0.1, 0.9, 0.2, 0})
	assert.Equal(t, "sport", res.Category.ID)
	require.Len(t, res.Similarities, 4)
	assert.Equal(t, "muziek", res.Similarities[0].CategoryID)
}

func TestClassify_CatchAll(t *testing.T) {
	// Catch-all shares a small component with every query; the specific
	// categories are orthogonal to it.
	c, err := New(testCategories, [][]float32{
		{1, 0, 0, 0, 0},
		{0, 1, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 1},
	})
	require.NoError(t, err)

	res := c.Classify([]float32{0, 0, 0, 1, 0.1})
	assert.Equal(t, types.CatchAllRootID, res.Category.ID)
}

func TestClassify_TiesGoToFirst(t *testing.T) {
	c, err := New(testCategories, [][]float32{{1, 0}, {1, 0}, {1, 0}, {1, 0}})
	require.NoError(t, err)
	assert.Equal(t, "muziek", c.Classify([]float32{1, 0}).Category.ID)

	// zero vector: all similarities 0
	assert.Equal(t, "muziek", c.Classify([]float32{0, 0}).Category.ID)
}

func TestRootLabel(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"muziek, instrumenten, dans", "Muziek"},
		{"technology, programmeren", "Technology"},
		{"gezondheid, zorg, EHBO", "Gezondheid"},
		{"  overig  , divers", "Overig"},
		{"single", "Single"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RootLabel(types.RootCategory{Description: tt.description}))
		})
	}
}

func TestClassify_AlwaysReturnsKnownCategory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		dim := rapid.IntRange(1, 6).Draw(t, "dim")
		vec := rapid.SliceOfN(rapid.Float32Range(-5, 5), dim, dim)

		categories := make([]types.RootCategory, n)
		embeddings := make([][]float32, n)
		ids := make(map[string]bool, n)
		for i := range categories {
			categories[i] = types.RootCategory{ID: string(rune('a' + i)), Description: "x"}
			embeddings[i] = vec.Draw(t, "embedding")
			ids[categories[i].ID] = true
		}

		c, err := New(categories, embeddings)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res := c.Classify(vec.Draw(t, "query"))
		if !ids[res.Category.ID] {
			t.Fatalf("classified into unknown category %q", res.Category.ID)
		}
		var winner float64
		for _, s := range res.Similarities {
			if s.CategoryID == res.Category.ID {
				winner = s.Score
			}
		}
		for i, s := range res.Similarities {
			if s.Score > winner {
				t.Fatalf("category %d scores %v above winner %v", i, s.Score, winner)
			}
			if s.Score < -1-1e-9 || s.Score > 1+1e-9 {
				t.Fatalf("cosine %v out of range", s.Score)
			}
		}
	})
}
