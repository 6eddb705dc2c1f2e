package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyber-morocco/Skillsy/internal/schemas"
	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.json
var seedSnapshot []byte

// Seed returns the catalog built from the embedded default snapshot.
func Seed() (*Catalog, error) {
	return Parse(seedSnapshot, ".json")
}

// LoadFile reads a JSON or YAML snapshot from disk and builds a catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot %s: %w", path, err)
	}
	cat, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("catalog snapshot %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a snapshot, validates it against the catalog snapshot schema
// and builds a catalog. YAML input is converted to JSON before validation so
// both formats obey the same schema.
func Parse(data []byte, ext string) (*Catalog, error) {
	jsonData := data
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var snapshot Snapshot
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to parse YAML snapshot: %w", err)
		}
		converted, err := json.Marshal(snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML snapshot: %w", err)
		}
		jsonData = converted
	case ".json", "":
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", ext)
	}

	if err := schemas.ValidateCatalogSnapshot(jsonData); err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(jsonData, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse JSON snapshot: %w", err)
	}
	return New(snapshot)
}
