package config

import (
	"fmt"
	"strings"
)

// Pattern is the data written over a disk on each pass.
type Pattern string

const (
	PatternZeros  Pattern = "zeros"
	PatternOnes   Pattern = "ones"
	PatternRandom Pattern = "random"
	// PatternNone skips the overwrite; only partitioning and formatting run.
	PatternNone Pattern = "none"
)

// cyclePatterns is the order the advanced menu walks through. None is only
// reachable through the quick preset.
var cyclePatterns = []Pattern{PatternZeros, PatternOnes, PatternRandom}

// Patterns lists every valid pattern.
func Patterns() []Pattern {
	return []Pattern{PatternZeros, PatternOnes, PatternRandom, PatternNone}
}

// Valid reports whether p is a known pattern.
func (p Pattern) Valid() bool {
	switch p {
	case PatternZeros, PatternOnes, PatternRandom, PatternNone:
		return true
	}
	return false
}

// Next returns the pattern after p in the cycle zeros, ones, random.
// Anything outside the cycle restarts it at zeros.
func (p Pattern) Next() Pattern {
	for i, c := range cyclePatterns {
		if c == p {
			return cyclePatterns[(i+1)%len(cyclePatterns)]
		}
	}
	return PatternZeros
}

// ParsePattern accepts a pattern name in any case.
func ParsePattern(s string) (Pattern, error) {
	p := Pattern(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown pattern %q (want zeros, ones, random or none)", s)
	}
	return p, nil
}

// WipeConfig is the persisted erase configuration.
type WipeConfig struct {
	Passes  int     `yaml:"passes"`
	Pattern Pattern `yaml:"pattern"`
	// Verify and PostAction are stored and shown but no script acts on them yet.
	Verify     bool   `yaml:"verify"`
	PostAction string `yaml:"post_action"`
}

// Default returns the configuration used when nothing has been saved.
func Default() WipeConfig {
	return WipeConfig{
		Passes:     1,
		Pattern:    PatternZeros,
		Verify:     false,
		PostAction: "none",
	}
}

// IncreasePasses adds one pass.
func (c *WipeConfig) IncreasePasses() {
	c.Passes++
}

// DecreasePasses removes one pass, never going below one.
func (c *WipeConfig) DecreasePasses() {
	if c.Passes > 1 {
		c.Passes--
		return
	}
	c.Passes = 1
}

// CyclePattern advances Pattern through zeros, ones, random.
func (c *WipeConfig) CyclePattern() {
	c.Pattern = c.Pattern.Next()
}

func (c *WipeConfig) ToggleVerify() {
	c.Verify = !c.Verify
}

// ApplyQuickPreset sets the format-only settings used by Basic mode.
func (c *WipeConfig) ApplyQuickPreset() {
	c.Pattern = PatternNone
	c.Passes = 1
}

// Validate checks the invariants a loaded configuration must hold.
func (c WipeConfig) Validate() error {
	if c.Passes < 1 {
		return fmt.Errorf("passes must be at least 1, got %d", c.Passes)
	}
	if !c.Pattern.Valid() {
		return fmt.Errorf("unknown pattern %q", c.Pattern)
	}
	return nil
}
