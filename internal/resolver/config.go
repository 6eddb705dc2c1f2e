package resolver

import (
	"fmt"

	"github.com/Cyber-morocco/Skillsy/internal/scoring"
)

// Default decision parameters.
const (
	DefaultAutoMapThreshold = 0.88
	DefaultNudgeThreshold   = 0.75
	DefaultTopK             = 3
	DefaultShortcutSuffix   = "programming coding technology"
)

// DefaultShortcuts are bare technical tokens that embed poorly on their own.
var DefaultShortcuts = []string{"css", "html", "sql", "java", "php", "cpp", "js", "react", "node", "docker", "typescript"}

// Config holds the engine's tunable constants.
type Config struct {
	AutoMapThreshold float64        `json:"auto_map_threshold"`
	NudgeThreshold   float64        `json:"nudge_threshold"`
	TopK             int            `json:"top_k"`
	Shortcuts        []string       `json:"shortcuts,omitempty"`
	ShortcutSuffix   string         `json:"shortcut_suffix,omitempty"`
	Scoring          scoring.Config `json:"scoring"`
}

// DefaultConfig returns the production thresholds and blend.
func DefaultConfig() Config {
	return Config{
		AutoMapThreshold: DefaultAutoMapThreshold,
		NudgeThreshold:   DefaultNudgeThreshold,
		TopK:             DefaultTopK,
		Shortcuts:        append([]string(nil), DefaultShortcuts...),
		ShortcutSuffix:   DefaultShortcutSuffix,
		Scoring:          scoring.DefaultConfig(),
	}
}

// Validate checks thresholds and the scoring blend.
func (c Config) Validate() error {
	if c.AutoMapThreshold < 0 || c.AutoMapThreshold > 1 {
		return fmt.Errorf("auto-map threshold must be in [0,1], got %v", c.AutoMapThreshold)
	}
	if c.NudgeThreshold < 0 || c.NudgeThreshold > 1 {
		return fmt.Errorf("nudge threshold must be in [0,1], got %v", c.NudgeThreshold)
	}
	if c.NudgeThreshold > c.AutoMapThreshold {
		return fmt.Errorf("nudge threshold %v exceeds auto-map threshold %v", c.NudgeThreshold, c.AutoMapThreshold)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top-k must be positive, got %d", c.TopK)
	}
	return c.Scoring.Validate()
}

// Decide maps the best total score to an outcome type. It is total over all
// scores: anything below the nudge threshold is a discovery.
func (c Config) Decide(best float64) Decision {
	switch {
	case best >= c.AutoMapThreshold:
		return DecideAutoMap
	case best >= c.NudgeThreshold:
		return DecideNudge
	default:
		return DecideDiscovery
	}
}

// Decision is the branch taken after scoring.
type Decision int

const (
	DecideDiscovery Decision = iota
	DecideNudge
	DecideAutoMap
)
