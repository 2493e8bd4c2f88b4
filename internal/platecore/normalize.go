package platecore

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxFoldPasses bounds the plate folding loop. Compatibility decompositions
// such as U+00A8 or U+00AA can reintroduce a space or a lowercase letter after
// the first pass; a second pass always settles them.
const maxFoldPasses = 4

// combiningDiacritics is the Combining Diacritical Marks block, U+0300–U+036F.
var combiningDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0300, Hi: 0x036f, Stride: 1},
	},
}

// isSeparatorSpace reports whether r is whitespace in the ECMAScript sense.
// It differs from unicode.IsSpace: U+FEFF counts, U+0085 does not.
func isSeparatorSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

func upper(s string) string {
	// cases.Caser carries state, so one per call keeps this reentrant.
	return cases.Upper(language.Und).String(s)
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || isSeparatorSpace(r) {
			return -1
		}
		return r
	}, s)
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(combiningDiacritics)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizePlate canonicalizes a license plate: trim, uppercase, drop spaces
// and hyphens, then NFKD with combining marks removed. Length and charset are
// left to the jurisdiction rules.
func NormalizePlate(raw string) string {
	s := strings.TrimFunc(raw, isSeparatorSpace)
	if s == "" {
		return ""
	}
	for i := 0; i < maxFoldPasses; i++ {
		next := stripDiacritics(stripSeparators(upper(s)))
		if next == s {
			break
		}
		s = next
	}
	return s
}

// NormalizeVIN uppercases a VIN and keeps only the VIN alphabet
// (0-9, A-Z without I, O and Q). Length and check digit are not enforced.
func NormalizeVIN(raw string) string {
	s := upper(strings.TrimFunc(raw, isSeparatorSpace))
	return strings.Map(func(r rune) rune {
		if IsVINChar(r) {
			return r
		}
		return -1
	}, s)
}

// IsVINChar reports whether r belongs to the VIN alphabet.
func IsVINChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'A' && r <= 'Z':
		return r != 'I' && r != 'O' && r != 'Q'
	}
	return false
}
