// Package types provides type definitions for structured data used throughout the skill resolution service.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillConcept is a canonical skill entry of the catalog.
// Concepts are loaded once from a snapshot and never mutated afterwards.
type SkillConcept struct {
	ID         string `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	RootID     string `json:"rootId" yaml:"rootId"`
	UsageCount int    `json:"usage" yaml:"usage"`
}

// RootCategory is a broad taxonomy bucket used only for fallback classification.
// Description is a comma separated list of domain words, not a display label.
type RootCategory struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
}

// CatchAllRootID is the miscellaneous category every catalog must carry.
const CatchAllRootID = "overig"
