package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/moneymentor/advisor/internal/domain"
)

// Convert coerces a raw extracted value (string, number, or bool, per
// whatever the inference layer produced) into the typed value declared for
// the slot. It returns ErrCannotCoerce when the value cannot be interpreted
// and ErrOutOfRange when it parses but fails validation.
//
// For TypeEnum slots an unmatched value is returned unchanged as a string;
// the caller decides whether to accept it.
func Convert(name domain.VarName, raw any) (any, error) {
	spec, ok := Vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown variable %q", ErrCannotCoerce, name)
	}

	switch spec.Type {
	case TypeInteger:
		f, err := toNumber(raw)
		if err != nil {
			return nil, err
		}
		n := int(f)
		if n < 0 {
			return nil, ErrOutOfRange
		}
		return n, nil

	case TypeCurrency:
		f, err := toNumber(raw)
		if err != nil {
			return nil, err
		}
		if f < 0 {
			return nil, ErrOutOfRange
		}
		return f, nil

	case TypeBoolean:
		return toBool(raw, spec)

	case TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: enum slot %s requires text", ErrCannotCoerce, name)
		}
		return matchEnum(s, spec.EnumValues), nil

	case TypeString:
		s, ok := raw.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: slot %s requires text", ErrCannotCoerce, name)
		}
		return strings.TrimSpace(s), nil

	default:
		return nil, fmt.Errorf("%w: unhandled type %q", ErrCannotCoerce, spec.Type)
	}
}

// ParseCurrency parses an amount with optional currency symbols, commas, and
// case-insensitive k/m magnitude suffixes: "150k" → 150000, "1.5m" →
// 1500000, "$90,000" → 90000.
func ParseCurrency(s string) (float64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, ErrCannotCoerce
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "k"):
		multiplier = 1_000
		cleaned = strings.TrimSuffix(cleaned, "k")
	case strings.HasSuffix(cleaned, "m"):
		multiplier = 1_000_000
		cleaned = strings.TrimSuffix(cleaned, "m")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrCannotCoerce, s)
	}
	return value * multiplier, nil
}

func toNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return ParseCurrency(v)
	default:
		return 0, fmt.Errorf("%w: unsupported value type %T", ErrCannotCoerce, raw)
	}
}

func toBool(raw any, spec VarSpec) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		if lower == "" {
			return nil, ErrCannotCoerce
		}
		// False phrases are checked first: "not included" must not match
		// the true phrase "included".
		for _, phrase := range spec.FalsePhrases {
			if phraseMatches(lower, phrase) {
				return false, nil
			}
		}
		for _, phrase := range spec.TruePhrases {
			if phraseMatches(lower, phrase) {
				return true, nil
			}
		}
		return nil, fmt.Errorf("%w: ambiguous boolean %q", ErrCannotCoerce, v)
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrCannotCoerce, raw)
	}
}

// phraseMatches reports whether text contains the phrase. Single-word
// phrases match whole words only, so "no" cannot fire inside "know" or
// "unknown". Multi-word phrases keep substring matching.
func phraseMatches(text, phrase string) bool {
	if strings.Contains(phrase, " ") {
		return strings.Contains(text, phrase)
	}
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if word == phrase {
			return true
		}
	}
	return false
}

func matchEnum(s string, allowed []string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return s
	}
	for _, v := range allowed {
		if lower == v {
			return v
		}
	}
	for _, v := range allowed {
		if strings.Contains(lower, v) || strings.Contains(v, lower) {
			return v
		}
	}
	// Unmatched: hand the raw value back unchanged.
	return s
}
