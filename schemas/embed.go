// Package schemas holds the JSON Schema documents for data exchanged with the service.
package schemas

import "embed"

// Files contains every *.schema.json document in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// CatalogSnapshot is the file name of the catalog snapshot schema.
const CatalogSnapshot = "catalog_snapshot.schema.json"
