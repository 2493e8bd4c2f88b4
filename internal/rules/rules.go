package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"plate-service/internal/config"
	"plate-service/internal/platecore"
)

type fileSpec struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	JurisdictionCode string   `yaml:"jurisdiction_code"`
	Pattern          string   `yaml:"pattern"`
	Reserved         []string `yaml:"reserved"`
}

// LoadFile reads jurisdiction rules from a YAML file.
func LoadFile(path string) ([]platecore.PlateRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}
	loaded, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return loaded, nil
}

// Parse decodes a rules document. Patterns are anchored to the whole plate;
// reserved values are normalized like plates before they are stored.
func Parse(data []byte) ([]platecore.PlateRule, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	seen := make(map[string]int, len(spec.Rules))
	out := make([]platecore.PlateRule, 0, len(spec.Rules))
	for i, rs := range spec.Rules {
		if first, dup := seen[rs.JurisdictionCode]; dup && rs.JurisdictionCode != "" {
			return nil, fmt.Errorf("rule %d: jurisdiction %s already defined by rule %d", i, rs.JurisdictionCode, first)
		}
		seen[rs.JurisdictionCode] = i

		reserved := make([]string, 0, len(rs.Reserved))
		for _, r := range rs.Reserved {
			reserved = append(reserved, platecore.NormalizePlate(r))
		}

		rule, err := platecore.CompileRule(rs.JurisdictionCode, rs.Pattern, reserved)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

// Apply builds the registry for mode. Replace keeps only loaded; extend
// registers loaded over the built-in defaults.
func Apply(loaded []platecore.PlateRule, mode string) (*platecore.Registry, error) {
	var reg *platecore.Registry
	switch mode {
	case config.RulesModeReplace:
		reg = platecore.NewRegistry(map[string]platecore.PlateRule{})
	case config.RulesModeExtend, "":
		reg = platecore.NewRegistry(nil)
	default:
		return nil, fmt.Errorf("unknown rules mode %q", mode)
	}
	for _, rule := range loaded {
		reg.RegisterRule(rule)
	}
	return reg, nil
}

// NewRegistry builds the registry described by cfg.
func NewRegistry(cfg config.PlateRulesConfig) (*platecore.Registry, error) {
	if cfg.File == "" {
		return Apply(nil, cfg.Mode)
	}
	loaded, err := LoadFile(cfg.File)
	if err != nil {
		return nil, err
	}
	return Apply(loaded, cfg.Mode)
}
