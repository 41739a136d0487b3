package xolmis

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ErrEmptyPattern reports a rule definition without a pattern.
var ErrEmptyPattern = errors.New("rule pattern is empty")

// RuleDefinition is the serialized form of a Rule.
type RuleDefinition struct {
	Name      string `yaml:"name"`
	Pattern   string `yaml:"pattern"`
	PathGroup string `yaml:"path_group"`
	LineGroup string `yaml:"line_group"`
}

type ruleFile struct {
	Rules []RuleDefinition `yaml:"rules"`
}

// Compile turns d into a Rule.
func (d RuleDefinition) Compile() (Rule, error) {
	if d.Pattern == "" {
		return Rule{}, fmt.Errorf("rule %q: %w", d.Name, ErrEmptyPattern)
	}
	return NewRule(d.Name, d.Pattern, d.PathGroup, d.LineGroup)
}

// ParseRuleDefinitions decodes a YAML document of the form
//
//	rules:
//	  - name: GoTest
//	    pattern: '(?P<path>\S+_test\.go):(?P<line>\d+)'
//
// and compiles every rule in order.
func ParseRuleDefinitions(data []byte) ([]Rule, error) {
	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rules: decode: %w", err)
	}
	rules := make([]Rule, 0, len(doc.Rules))
	for i, def := range doc.Rules {
		if def.Name == "" {
			def.Name = fmt.Sprintf("rule%d", i+1)
		}
		rule, err := def.Compile()
		if err != nil {
			return nil, fmt.Errorf("rules: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRuleFile reads and parses a YAML rule file.
func LoadRuleFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return ParseRuleDefinitions(data)
}
