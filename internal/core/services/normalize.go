package services

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
// Day and month accept one or two digits.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"1/2/2006",
	"2006-1-2",
}

// NormalizeValue parses a Brazilian currency string such as "R$ 1.234,56".
// It returns 0 when the value cannot be parsed.
func NormalizeValue(value string) float64 {
	if value == "" {
		return 0
	}
	value = strings.ReplaceAll(value, "R$", "")
	value = strings.ReplaceAll(value, ".", "")
	value = strings.ReplaceAll(value, ",", ".")
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizeDate parses a date with the supported layouts.
// It returns false when no layout matches.
func NormalizeDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeField converts a raw match by field-name convention.
// The second result is false when the field should be omitted.
func normalizeField(name, raw string) (any, bool) {
	switch {
	case strings.Contains(name, "valor") || strings.Contains(name, "total"):
		return NormalizeValue(raw), true
	case strings.Contains(name, "data"):
		t, ok := NormalizeDate(raw)
		if !ok {
			return nil, false
		}
		return t, true
	default:
		return raw, true
	}
}
