package drc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the configurable design-rule constants.
type Rules struct {
	// ClearanceMM is the minimum copper-to-copper distance between
	// features of different nets on the same layer.
	ClearanceMM float64 `yaml:"clearance_mm"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{ClearanceMM: 0.2}
}

// LoadRules reads a rule file, filling unset values from the defaults.
func LoadRules(filename string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(filename)
	if err != nil {
		return rules, fmt.Errorf("reading rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("unmarshalling rules: %w", err)
	}
	if rules.ClearanceMM <= 0 {
		rules.ClearanceMM = DefaultRules().ClearanceMM
	}
	return rules, nil
}
