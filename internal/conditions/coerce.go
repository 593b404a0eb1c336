// internal/conditions/coerce.go
package conditions

import (
	"math"
	"strconv"
	"strings"
	"time"
)

/*
 * Scalar coercion for condition evaluation.
 *
 * Attribute values arrive from the catalog store as loosely-typed scalars
 * (TEXT columns, JSON numbers, driver-specific types). Each evaluator arm
 * coerces both operands to its comparison domain before applying the
 * operator. Coercion failure is not an error: the raw comparison simply
 * evaluates to false, which is the defined behavior for unparseable
 * attribute values.
 *
 * Boolean coercion accepts the forms the original catalog actually stores:
 * yes/no flags, 1/0, true/false, on/off, and bare numerics (nonzero is
 * true). Date coercion accepts RFC3339 and the two date formats the
 * catalog writes.
 */

// toFloat converts a scalar to float64 for numeric comparison.
// Accepts Go numeric types and numeric strings; whitespace-only strings
// are not valid numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		// Booleans are not numbers; strict per type dispatch.
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toText converts a scalar to its case-folded text form.
// Text comparison is case-insensitive across the board, so folding happens
// once here rather than in every operator.
func toText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(s)), true
	case bool:
		if s {
			return "true", true
		}
		return "false", true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	default:
		return "", false
	}
}

// toBool converts common truthy/falsy scalar forms to a boolean.
// String forms: 1/0, true/false, yes/no, on/off (the catalog stores flags
// as yes/no). Numeric forms: nonzero is true. Empty string is false.
func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	case int64:
		return b != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off", "":
			return false, true
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(b), 64); err == nil {
			return f != 0, true
		}
		return false, false
	default:
		return false, false
	}
}

// dateLayouts are tried in order when parsing date attributes.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toDate converts a scalar to a comparable instant.
// Strings parse against dateLayouts; bare numerics are Unix seconds.
func toDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int64:
		return time.Unix(d, 0).UTC(), true
	case int:
		return time.Unix(int64(d), 0).UTC(), true
	case float64:
		return time.Unix(int64(d), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}
