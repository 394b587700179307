package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// The catalog feed writes titles as "<Noun> <Brand> <model...>", e.g.
// `Телевизор Samsung 55" QLED`. Both extractors below are heuristics tied to
// that convention, treated as a versioned contract with the catalog source:
// they are not hardened against format drift.

// Package-level compiled regex patterns for performance
var (
	// First run of digits, optionally followed by an inch marker. Only the
	// first match counts; model numbers later in the title are not
	// disambiguated.
	screenSizeRegex = regexp.MustCompile(`(\d+)\s*(?:"|”|''|дюйм\p{L}*)?`)

	// Case-insensitive marker noun preceding the brand.
	brandMarkerRegex = regexp.MustCompile(`(?i)телевизор`)
)

// trailingQuoteCutset covers the quote characters titles append to sizes and
// model names.
const trailingQuoteCutset = "\"”„'«»"

// ExtractScreenSize scans a title for the first run of digits and returns it
// as the screen diagonal in inches.
func ExtractScreenSize(title string) (int, bool) {
	m := screenSizeRegex.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	size, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return size, true
}

// ExtractBrand takes the substring after the marker noun and returns the
// first whitespace token that is not purely numeric and contains at least
// one Latin or Cyrillic letter, with trailing quote characters stripped.
func ExtractBrand(title string) (string, bool) {
	loc := brandMarkerRegex.FindStringIndex(title)
	if loc == nil {
		return "", false
	}

	for _, token := range strings.Fields(title[loc[1]:]) {
		token = strings.TrimRight(token, trailingQuoteCutset)
		if token == "" || isPurelyNumeric(token) {
			continue
		}
		if hasAlphabetic(token) {
			return token, true
		}
	}
	return "", false
}

func isPurelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasAlphabetic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
