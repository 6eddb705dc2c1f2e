package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyber-morocco/Skillsy/internal/types"
)

// execute runs the root command in-process and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	configPath = ""
	resolveLocale = types.DefaultLocale
	resolveVerbose = false
	resolveNoEnrich = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// embeddingsServer serves letter-frequency vectors in the OpenAI embeddings format.
func embeddingsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, len(req.Input))
		for i, text := range req.Input {
			v := make([]float64, 26)
			for _, r := range strings.ToLower(text) {
				if r >= 'a' && r <= 'z' {
					v[r-'a']++
				}
			}
			v[0] += 0.5 // no zero vectors
			data[i] = item{Index: i, Embedding: v}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func offlineEnv(t *testing.T, embeddingsURL string) {
	t.Helper()
	t.Setenv("CATALOG_SOURCE", "seed")
	t.Setenv("CATALOG_PATH", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TRACE_STORE_ENABLED", "false")
	t.Setenv("EMBEDDING_CACHE_ENABLED", "false")
	t.Setenv("EMBEDDINGS_PROVIDER", "openai")
	t.Setenv("EMBEDDINGS_BASE_URL", embeddingsURL)
	t.Setenv("EMBEDDINGS_MODEL", "")
	t.Setenv("ENRICH_ENABLED", "false")
	t.Setenv("PORT", "")
	t.Setenv("AUTO_MAP_THRESHOLD", "")
	t.Setenv("NUDGE_THRESHOLD", "")
	t.Setenv("WEIGHT_SEMANTIC", "")
	t.Setenv("WEIGHT_FUZZY", "")
	t.Setenv("WEIGHT_POPULARITY", "")
}

func TestCatalogValidate(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(`version: test
concepts:
  - {id: c1, label: Gitaar, rootId: muziek, usage: 120}
rootCategories:
  - {id: muziek, description: "muziek, instrumenten"}
  - {id: overig, description: "overig, diversen"}
`), 0644))

	stdout, _, err := execute(t, "catalog", "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed: 1 concepts, 2 root categories")

	missingCatchAll := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(missingCatchAll, []byte(`{
		"concepts": [{"id": "c1", "label": "Gitaar", "rootId": "muziek", "usage": 1}],
		"rootCategories": [{"id": "muziek", "description": "muziek"}]
	}`), 0644))

	_, _, err = execute(t, "catalog", "validate", missingCatchAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "overig")

	_, _, err = execute(t, "catalog", "validate", filepath.Join(dir, "nope.json"))
	assert.Error(t, err)

	_, _, err = execute(t, "catalog", "validate")
	assert.Error(t, err, "file argument is required")
}

func TestResolve_ExactMatch(t *testing.T) {
	offlineEnv(t, embeddingsServer(t).URL)

	stdout, _, err := execute(t, "resolve", "PIANO")
	require.NoError(t, err)

	var outcome types.Outcome
	require.NoError(t, json.Unmarshal([]byte(stdout), &outcome))
	assert.Equal(t, types.OutcomeAutoMap, outcome.Type)
	require.NotNil(t, outcome.Match)
	assert.Equal(t, "c3", outcome.Match.Concept.ID)
	assert.Equal(t, 1.0, outcome.Match.Score)
}

func TestResolve_VerboseTrace(t *testing.T) {
	offlineEnv(t, embeddingsServer(t).URL)

	stdout, stderr, err := execute(t, "resolve", "--verbose", "kite", "surfen")
	require.NoError(t, err)

	var outcome types.Outcome
	require.NoError(t, json.Unmarshal([]byte(stdout), &outcome))
	assert.NotEmpty(t, outcome.Type)
	assert.False(t, outcome.IsWebAugmented)

	assert.Contains(t, stderr, "EXACT MATCH")
	assert.Contains(t, stderr, "RESOLUTION OUTCOME")
}

func TestResolve_InvalidInput(t *testing.T) {
	offlineEnv(t, embeddingsServer(t).URL)

	_, _, err := execute(t, "resolve", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request")

	_, _, err = execute(t, "resolve")
	assert.Error(t, err)
}

func TestResolve_BadConfig(t *testing.T) {
	offlineEnv(t, "http://127.0.0.1:1")
	t.Setenv("WEIGHT_SEMANTIC", "0.9")

	_, _, err := execute(t, "resolve", "piano")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1")
}
