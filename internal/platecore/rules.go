package platecore

import (
	"fmt"
	"regexp"
	"sort"
)

// Stable message codes. Callers pick UI text by code.
const (
	CodeEmpty           = "EMPTY"
	CodePatternMismatch = "PATTERN_MISMATCH"
	CodeReserved        = "RESERVED"
	CodeNormalized      = "NORMALIZED"
)

type ValidationMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlateValidationResult struct {
	IsValid          bool                `json:"is_valid"`
	NormalizedPlate  string              `json:"normalized_plate"`
	JurisdictionCode string              `json:"jurisdiction_code"`
	Reasons          []ValidationMessage `json:"reasons"`
	Warnings         []ValidationMessage `json:"warnings"`
}

// PlateRule validates plates for a single jurisdiction.
type PlateRule interface {
	JurisdictionCode() string
	Pattern() *regexp.Regexp
	// Reserved returns the blocked normalized plates in sorted order.
	Reserved() []string
	Normalize(raw string) string
	Validate(raw string) PlateValidationResult
}

// Rule is the data-driven PlateRule: a pattern matched against the
// normalized plate plus an optional reserved set.
type Rule struct {
	code     string
	pattern  *regexp.Regexp
	reserved map[string]struct{}
}

var _ PlateRule = (*Rule)(nil)

// BuildValidator returns a rule for code. The pattern is used as given, so it
// should carry its own ^ and $ anchors. Reserved values are compared against
// the normalized plate verbatim.
func BuildValidator(code string, pattern *regexp.Regexp, reserved ...string) *Rule {
	r := &Rule{code: code, pattern: pattern}
	if len(reserved) > 0 {
		r.reserved = make(map[string]struct{}, len(reserved))
		for _, v := range reserved {
			r.reserved[v] = struct{}{}
		}
	}
	return r
}

// CompileRule builds a rule from a textual expression. The expression is
// always anchored to the full plate.
func CompileRule(code, expr string, reserved []string) (*Rule, error) {
	if code == "" {
		return nil, fmt.Errorf("jurisdiction code is required")
	}
	if expr == "" {
		return nil, fmt.Errorf("pattern for %s is required", code)
	}
	pattern, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern for %s: %w", code, err)
	}
	return BuildValidator(code, pattern, reserved...), nil
}

func (r *Rule) JurisdictionCode() string {
	if r == nil {
		return ""
	}
	return r.code
}

func (r *Rule) Pattern() *regexp.Regexp { return r.pattern }

func (r *Rule) Reserved() []string {
	if len(r.reserved) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.reserved))
	for v := range r.reserved {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (r *Rule) Normalize(raw string) string { return NormalizePlate(raw) }

// Validate runs every check independently: an empty plate collects both
// EMPTY and PATTERN_MISMATCH.
func (r *Rule) Validate(raw string) PlateValidationResult {
	normalized := NormalizePlate(raw)
	reasons := []ValidationMessage{}
	warnings := []ValidationMessage{}

	if normalized == "" {
		reasons = append(reasons, ValidationMessage{
			Code:    CodeEmpty,
			Message: "Plate is empty after normalization",
		})
	}

	if r.pattern == nil || !r.pattern.MatchString(normalized) {
		reasons = append(reasons, ValidationMessage{
			Code:    CodePatternMismatch,
			Message: "Plate does not match pattern for " + r.code,
		})
	}

	if _, blocked := r.reserved[normalized]; blocked {
		reasons = append(reasons, ValidationMessage{
			Code:    CodeReserved,
			Message: "Plate is reserved or blocked",
		})
	}

	if normalized != raw {
		warnings = append(warnings, ValidationMessage{
			Code:    CodeNormalized,
			Message: "Input plate was normalized",
		})
	}

	return PlateValidationResult{
		IsValid:          len(reasons) == 0,
		NormalizedPlate:  normalized,
		JurisdictionCode: r.code,
		Reasons:          reasons,
		Warnings:         warnings,
	}
}

// Built-in jurisdictions.
const (
	JurisdictionMexicoCity   = "MX-CMX"
	JurisdictionLatamGeneric = "LATAM-GENERIC"
	JurisdictionUSGeneric    = "US-GENERIC"
)

var (
	mexicoCityPattern   = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)
	latamGenericPattern = regexp.MustCompile(`^[A-Z0-9]{5,8}$`)
	usGenericPattern    = regexp.MustCompile(`^[A-Z0-9]{1,7}$`)
)

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() map[string]PlateRule {
	return map[string]PlateRule{
		JurisdictionMexicoCity:   BuildValidator(JurisdictionMexicoCity, mexicoCityPattern),
		JurisdictionLatamGeneric: BuildValidator(JurisdictionLatamGeneric, latamGenericPattern),
		JurisdictionUSGeneric:    BuildValidator(JurisdictionUSGeneric, usGenericPattern),
	}
}

// FormatPlate renders a normalized plate for display, re-inserting hyphens
// after the third and sixth characters: ABC-123 or ABC-123-D.
func FormatPlate(normalized string) string {
	chars := []rune(normalized)
	switch {
	case len(chars) <= 3:
		return normalized
	case len(chars) <= 6:
		return string(chars[:3]) + "-" + string(chars[3:])
	default:
		return string(chars[:3]) + "-" + string(chars[3:6]) + "-" + string(chars[6:])
	}
}
