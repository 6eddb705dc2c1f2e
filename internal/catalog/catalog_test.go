package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Cyber-morocco/Skillsy/internal/schemas"
	"github.com/Cyber-morocco/Skillsy/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Concepts: []types.SkillConcept{
			{ID: "c1", Label: "Piano", RootID: "muziek", UsageCount: 70},
			{ID: "c2", Label: "Yoga", RootID: "sport", UsageCount: 120},
		},
		RootCategories: []types.RootCategory{
			{ID: "muziek", Description: "muziek, music"},
			{ID: "overig", Description: "overig, other"},
		},
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:   "valid",
			mutate: func(*Snapshot) {},
		},
		{
			name:    "no concepts",
			mutate:  func(s *Snapshot) { s.Concepts = nil },
			wantErr: ErrEmpty,
		},
		{
			name:    "no categories",
			mutate:  func(s *Snapshot) { s.RootCategories = nil },
			wantErr: ErrEmpty,
		},
		{
			name: "duplicate concept id",
			mutate: func(s *Snapshot) {
				s.Concepts = append(s.Concepts, types.SkillConcept{ID: "c1", Label: "Other", RootID: "muziek"})
			},
			check: func(t *testing.T, err error) {
				var dup *DuplicateIDError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "concept", dup.Kind)
				assert.Equal(t, "c1", dup.ID)
			},
		},
		{
			name: "duplicate category id",
			mutate: func(s *Snapshot) {
				s.RootCategories = append(s.RootCategories, types.RootCategory{ID: "muziek", Description: "again"})
			},
			check: func(t *testing.T, err error) {
				var dup *DuplicateIDError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "root category", dup.Kind)
			},
		},
		{
			name:   "missing catch-all",
			mutate: func(s *Snapshot) { s.RootCategories = s.RootCategories[:1] },
			check: func(t *testing.T, err error) {
				var missing *MissingCatchAllError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, types.CatchAllRootID, missing.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := testSnapshot()
			tt.mutate(&snapshot)
			cat, err := New(snapshot)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cat)
			case tt.check != nil:
				require.Error(t, err)
				tt.check(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 2, cat.Len())
			}
		})
	}
}

func TestLookupExact(t *testing.T) {
	cat, err := New(testSnapshot())
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  string
		wantID string
		found  bool
	}{
		{"label exact", "Piano", "c1", true},
		{"label lower", "piano", "c1", true},
		{"label upper with spaces", "  YOGA ", "c2", true},
		{"by id", "C2", "c2", true},
		{"substring is not exact", "pian", "", false},
		{"unknown", "Gitaar", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			concept, ok := cat.LookupExact(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, concept.ID)
		})
	}
}

func TestLookupExact_FirstConceptWins(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Concepts = append(snapshot.Concepts, types.SkillConcept{ID: "c3", Label: "piano", RootID: "muziek"})
	cat, err := New(snapshot)
	require.NoError(t, err)

	concept, ok := cat.LookupExact("PIANO")
	require.True(t, ok)
	assert.Equal(t, "c1", concept.ID)
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	cat, err := New(testSnapshot())
	require.NoError(t, err)

	concepts := cat.Concepts()
	concepts[0].Label = "mutated"
	assert.Equal(t, "Piano", cat.Concept(0).Label)

	categories := cat.RootCategories()
	categories[0].ID = "mutated"
	assert.Equal(t, "muziek", cat.RootCategories()[0].ID)

	assert.Equal(t, []string{"Piano", "Yoga"}, cat.Labels())
}

func TestSeed(t *testing.T) {
	cat, err := Seed()
	require.NoError(t, err)

	assert.Equal(t, 13, cat.Len())
	assert.Len(t, cat.RootCategories(), 13)
	assert.Equal(t, "2024-skillsy-seed", cat.Version())

	piano, ok := cat.LookupExact("piano")
	require.True(t, ok)
	assert.Equal(t, types.SkillConcept{ID: "c3", Label: "Piano", RootID: "muziek", UsageCount: 70}, piano)

	last := cat.RootCategories()[12]
	assert.Equal(t, types.CatchAllRootID, last.ID)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"concepts": [{"id": "c1", "label": "Piano", "rootId": "muziek", "usage": 70}],
		"rootCategories": [{"id": "overig", "description": "overig, other"}]
	}`), 0o600))

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
version: v2
concepts:
  - id: c1
    label: Piano
    rootId: muziek
    usage: 70
rootCategories:
  - id: overig
    description: overig, other
`), 0o600))

	t.Run("json", func(t *testing.T) {
		cat, err := LoadFile(jsonPath)
		require.NoError(t, err)
		assert.Equal(t, 1, cat.Len())
	})

	t.Run("yaml", func(t *testing.T) {
		cat, err := LoadFile(yamlPath)
		require.NoError(t, err)
		assert.Equal(t, "v2", cat.Version())
		assert.Equal(t, 70, cat.Concept(0).UsageCount)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}

func TestParse_Errors(t *testing.T) {
	t.Run("schema violation", func(t *testing.T) {
		_, err := Parse([]byte(`{"concepts": [], "rootCategories": []}`), ".json")
		var verr *schemas.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Parse([]byte(`{}`), ".toml")
		assert.ErrorContains(t, err, "unsupported snapshot format")
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := Parse([]byte("concepts: [\n"), ".yml")
		assert.ErrorContains(t, err, "failed to parse YAML")
	})

	t.Run("schema valid but missing catch-all", func(t *testing.T) {
		_, err := Parse([]byte(`{
			"concepts": [{"id": "c1", "label": "Piano", "rootId": "muziek", "usage": 70}],
			"rootCategories": [{"id": "muziek", "description": "music"}]
		}`), ".json")
		var missing *MissingCatchAllError
		assert.ErrorAs(t, err, &missing)
	})
}
