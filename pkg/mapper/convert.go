package mapper

import (
	"math"
	"strconv"
	"strings"

	"github.com/getmockd/xmlbridge/pkg/openapi"
)

// ConvertValue converts XML text to the primitive type t. Numbers that do
// not parse are returned as the original string; integers are floored.
// Booleans accept true/1/yes and false/0/no in any case; anything else is
// returned unchanged.
func ConvertValue(text string, t openapi.Type) any {
	switch t {
	case openapi.TypeNumber, openapi.TypeInteger:
		f, ok := parseNumber(text)
		if !ok {
			return text
		}
		if t == openapi.TypeInteger {
			f = math.Floor(f)
			if f >= math.MinInt64 && f < math.MaxInt64 {
				return int64(f)
			}
		}
		return f
	case openapi.TypeBoolean:
		switch strings.ToLower(text) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return text
}

// parseNumber accepts decimal and exponent notation plus 0x, 0o and 0b
// integer literals. Digit separators, infinities and NaN are rejected.
func parseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// enumContains compares v with the declared enum values. Numbers compare
// by value regardless of their Go type.
func enumContains(enum []any, v any) bool {
	vf, vNum := asFloat(v)
	for _, e := range enum {
		if ef, ok := asFloat(e); ok && vNum {
			if ef == vf {
				return true
			}
			continue
		}
		if e == v {
			return true
		}
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
