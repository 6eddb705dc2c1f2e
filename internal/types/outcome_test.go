//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_WireFormat(t *testing.T) {
	piano := SkillConcept{ID: "c3", Label: "Piano", RootID: "muziek", UsageCount: 70}

	t.Run("auto map", func(t *testing.T) {
		data, err := json.Marshal(AutoMap(piano, 1.0, false))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "auto_map", got["type"])
		assert.NotContains(t, got, "suggestions")
		assert.NotContains(t, got, "proposed")

		match := got["match"].(map[string]any)
		assert.Equal(t, 1.0, match["score"])
		concept := match["concept"].(map[string]any)
		assert.Equal(t, "c3", concept["id"])
		assert.Equal(t, "muziek", concept["rootId"])
		assert.Equal(t, 70.0, concept["usage"])
	})

	t.Run("nudge", func(t *testing.T) {
		outcome := Nudge([]Candidate{{Concept: piano, TotalScore: 0.8}}, true)
		data, err := json.Marshal(outcome)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"type":"nudge"`)
		assert.Contains(t, string(data), `"score":0.8`)
		assert.Contains(t, string(data), `"isWebAugmented":true`)
		assert.NotContains(t, string(data), `"match"`)
	})

	t.Run("discovery", func(t *testing.T) {
		data, err := json.Marshal(Discovery("Kitesurfen", "sport", "Sport", false))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"type":"discovery","proposed":{"label":"Kitesurfen","rootId":"sport","rootLabel":"Sport"},"isWebAugmented":false}`,
			string(data))
	})
}
