// Package normalize coerces raw, inconsistently typed listing attributes
// into typed values: currency and area strings, photo counters, update
// dates, and neighborhood names. All functions are pure; unparseable input
// yields nil (or a false ok), never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	nonDigitRe = regexp.MustCompile(`[^0-9]`)
	digitsRe   = regexp.MustCompile(`[0-9]+`)
	counterRe  = regexp.MustCompile(`([0-9]+)\s*/\s*([0-9]+)`)

	// "hace 3 días", "hace 2 semanas", "3 days ago", "2 weeks ago"
	relativeEsRe = regexp.MustCompile(`(?i)hace\s+([0-9]+)\s+(día|días|dia|dias|hora|horas|semana|semanas|mes|meses)`)
	relativeEnRe = regexp.MustCompile(`(?i)([0-9]+)\s+(day|days|hour|hours|week|weeks|month|months)\s+ago`)
)

// Amount parses a currency or size string ("1.250 €", "119 m²") by stripping
// every non-digit rune and parsing the remainder. Empty or non-numeric input
// yields nil. Note that decimal separators are stripped too, matching how
// marketplace prices are displayed (whole units, thousands-separated).
func Amount(raw string) *float64 {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Counter parses gallery-counter text. "3 / 18" carries the total after the
// slash; otherwise the first run of digits wins ("23 fotos" -> 23).
func Counter(raw string) *int {
	if m := counterRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return &n
		}
	}
	digits := digitsRe.FindString(raw)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// When parses an update date that may be a relative phrase ("hace 3 días",
// "3 days ago", "hoy", "yesterday") or an absolute date in most common
// formats. Relative phrases resolve against ref, not the wall clock.
func When(raw string, ref time.Time) *time.Time {
	text := strings.ToLower(Text(raw))
	if text == "" {
		return nil
	}

	switch text {
	case "hoy", "today":
		t := ref
		return &t
	case "ayer", "yesterday":
		t := ref.AddDate(0, 0, -1)
		return &t
	}

	if m := relativeEsRe.FindStringSubmatch(text); m != nil {
		return relative(ref, m[1], m[2])
	}
	if m := relativeEnRe.FindStringSubmatch(text); m != nil {
		return relative(ref, m[1], m[2])
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	return &t
}

func relative(ref time.Time, amount, unit string) *time.Time {
	n, err := strconv.Atoi(amount)
	if err != nil {
		return nil
	}
	var t time.Time
	switch {
	case strings.HasPrefix(unit, "hora"), strings.HasPrefix(unit, "hour"):
		t = ref.Add(-time.Duration(n) * time.Hour)
	case strings.HasPrefix(unit, "semana"), strings.HasPrefix(unit, "week"):
		t = ref.AddDate(0, 0, -7*n)
	case strings.HasPrefix(unit, "mes"), strings.HasPrefix(unit, "month"):
		t = ref.AddDate(0, -n, 0)
	default: // días / days
		t = ref.AddDate(0, 0, -n)
	}
	return &t
}

// Text trims a string and collapses internal whitespace runs to single
// spaces.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
