package ingestion

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/poiesic/trialdex/core"
)

// coerceString trims whitespace and treats common null spellings as absent.
func coerceString(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

// coerceInt parses a participant count from messy source data. Thousands
// separators and float renderings like "120.0" are accepted. Returns nil
// when the value is absent or unparseable.
func coerceInt(raw string) *int {
	s := coerceString(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// dateFormats are tried in order when parsing source dates.
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 02, 2006",
	"January 02, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// parseDate parses common date renderings and returns ISO 8601 (YYYY-MM-DD).
// Unparseable or absent values come back empty.
func parseDate(raw string) string {
	s := coerceString(raw)
	if s == "" {
		return ""
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// normalizePhase canonicalizes a raw phase rendering to PHASE* tokens.
func normalizePhase(raw string) string {
	return core.CanonicalPhase(coerceString(raw))
}

// normalizeStatus title-cases the first rune and lowercases the rest, so
// "RECRUITING" and "recruiting" both store as "Recruiting".
func normalizeStatus(raw string) string {
	s := coerceString(raw)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
