package discovery

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// RulePack is a YAML-loadable override for the engine's scoring and
// filtering behavior.
type RulePack struct {
	NameRules       []RuleSpec `yaml:"nameRules"`
	PathRules       []RuleSpec `yaml:"pathRules"`
	ExcludePaths    []string   `yaml:"excludePaths"`
	ExtraExtensions []string   `yaml:"extraExtensions"`
}

// RuleSpec is one pattern/score pair as written in a rule-pack file.
// Name patterns are compiled case-insensitively.
type RuleSpec struct {
	Pattern string `yaml:"pattern"`
	Score   int    `yaml:"score"`
}

// LoadRulePack reads a rule pack from path. An empty path yields nil.
func LoadRulePack(path string) (*RulePack, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule pack: %w", err)
	}
	var pack RulePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parsing rule pack: %w", err)
	}
	for _, spec := range pack.NameRules {
		if spec.Score < 0 {
			return nil, fmt.Errorf("name rule %q: negative scores are not allowed", spec.Pattern)
		}
	}
	for _, spec := range pack.PathRules {
		if spec.Score < 0 {
			return nil, fmt.Errorf("path rule %q: negative scores are not allowed", spec.Pattern)
		}
	}
	return &pack, nil
}

// PriorityOptions compiles the pack's rules into engine options. Rules that
// fail to compile are reported rather than skipped.
func (p *RulePack) PriorityOptions() (PriorityOptions, error) {
	var opts PriorityOptions
	if p == nil {
		return opts, nil
	}
	if len(p.NameRules) > 0 {
		rules, err := compileRules(p.NameRules, true)
		if err != nil {
			return opts, fmt.Errorf("name rules: %w", err)
		}
		opts.NameRules = rules
	}
	if len(p.PathRules) > 0 {
		rules, err := compileRules(p.PathRules, false)
		if err != nil {
			return opts, fmt.Errorf("path rules: %w", err)
		}
		opts.PathRules = rules
	}
	return opts, nil
}

// ApplyTo folds the pack's filter-level overrides into opts.
func (p *RulePack) ApplyTo(opts *FilterOptions) {
	if p == nil {
		return
	}
	opts.ExcludePaths = append(opts.ExcludePaths, p.ExcludePaths...)
	opts.ExtraExtensions = append(opts.ExtraExtensions, p.ExtraExtensions...)
}

func compileRules(specs []RuleSpec, caseInsensitive bool) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		pattern := spec.Pattern
		if caseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", spec.Pattern, err)
		}
		rules = append(rules, Rule{Pattern: re, Score: spec.Score})
	}
	return rules, nil
}
