package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumberRegex salvages a numeric prefix from strings like "199.90 BYN".
var leadingNumberRegex = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d+)?`)

// CoerceNumber normalizes a value that may be a number or a numeric-bearing
// string into a finite float64. Anything that cannot be coerced fails safe to
// zero; NaN and infinities never escape.
func CoerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return finiteOrZero(n)
	case float32:
		return finiteOrZero(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	case string:
		return coerceString(n)
	default:
		return 0
	}
}

func coerceString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return finiteOrZero(f)
	}
	// The service occasionally appends a currency suffix; take the numeric
	// prefix the way a lenient parser would.
	prefix := leadingNumberRegex.FindString(s)
	if prefix == "" {
		return 0
	}
	prefix = strings.ReplaceAll(prefix, ",", ".")
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
