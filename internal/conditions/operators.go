// internal/conditions/operators.go
package conditions

import (
	"math"
	"strings"

	"github.com/solatis/promofilter/internal/types"
)

/*
 * Operator comparison logic, one arm per value type.
 *
 * Each arm is a pure (operator, attribute value, condition values) -> bool
 * function. The attribute value arrives uncoerced from the snapshot;
 * condition values arrive in canonical string form from normalization.
 * Any coercion failure on either side makes the raw comparison false.
 *
 * Numeric equality uses a relative epsilon (types.NumericEpsilon) so that
 * float parse round-trips of the same price compare equal. BETWEEN bounds
 * are order-normalized and inclusive, and use exact comparison so BETWEEN
 * and NOT BETWEEN stay exact complements.
 *
 * Why function-based: five dispatch arms via switch is cleaner than five
 * interface implementations with minimal behavior variation, and keeps the
 * dispatch table exhaustively checkable in one place.
 */

// compareNumeric implements the numeric operator set.
func compareNumeric(op types.Operator, value any, operands []string) bool {
	left, ok := toFloat(value)
	if !ok {
		return false
	}

	switch op {
	case types.OpBetween, types.OpNotBetween:
		lo, ok1 := toFloat(operands[0])
		hi, ok2 := toFloat(operands[1])
		if !ok1 || !ok2 {
			return false
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		inside := left >= lo && left <= hi
		if op == types.OpBetween {
			return inside
		}
		return !inside
	}

	right, ok := toFloat(operands[0])
	if !ok {
		return false
	}

	switch op {
	case types.OpEq:
		return floatEqual(left, right)
	case types.OpNeq:
		return !floatEqual(left, right)
	case types.OpGt:
		return left > right
	case types.OpLt:
		return left < right
	case types.OpGte:
		return left >= right
	case types.OpLte:
		return left <= right
	default:
		return false
	}
}

// floatEqual compares with a relative epsilon scaled to the larger
// magnitude. Exact equality short-circuits so zero compares to zero.
func floatEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= types.NumericEpsilon*scale
}

// compareText implements the case-insensitive text operator set.
func compareText(op types.Operator, value any, operands []string) bool {
	left, ok := toText(value)
	if !ok {
		return false
	}
	right := strings.ToLower(operands[0])

	switch op {
	case types.OpEq:
		return left == right
	case types.OpNeq:
		return left != right
	case types.OpLike:
		return matchLike(left, right)
	case types.OpNotLike:
		return !matchLike(left, right)
	case types.OpStartsWith:
		return strings.HasPrefix(left, right)
	case types.OpEndsWith:
		return strings.HasSuffix(left, right)
	default:
		return false
	}
}

// matchLike implements LIKE with % wildcards over already-folded strings.
// A pattern without % is a substring test. With %, segments between
// wildcards must appear in order; a pattern not starting (ending) with %
// anchors its first (last) segment.
func matchLike(s, pattern string) bool {
	if !strings.Contains(pattern, "%") {
		return strings.Contains(s, pattern)
	}

	segments := strings.Split(pattern, "%")

	// Anchored head
	if segments[0] != "" {
		if !strings.HasPrefix(s, segments[0]) {
			return false
		}
		s = s[len(segments[0]):]
	}
	segments = segments[1:]
	if len(segments) == 0 {
		return true
	}

	// Anchored tail
	tail := segments[len(segments)-1]
	segments = segments[:len(segments)-1]
	if tail != "" {
		if !strings.HasSuffix(s, tail) {
			return false
		}
		s = s[:len(s)-len(tail)]
	}

	// Interior segments match greedily left to right
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		idx := strings.Index(s, seg)
		if idx < 0 {
			return false
		}
		s = s[idx+len(seg):]
	}
	return true
}

// compareBool implements boolean equality with truthy/falsy coercion on
// both sides.
func compareBool(op types.Operator, value any, operands []string) bool {
	left, ok := toBool(value)
	if !ok {
		return false
	}
	right, ok := toBool(operands[0])
	if !ok {
		return false
	}

	switch op {
	case types.OpEq:
		return left == right
	case types.OpNeq:
		return left != right
	default:
		return false
	}
}

// compareEnum implements equality and membership against the condition's
// value set. Enum tokens compare case-insensitively after trimming,
// consistent with text comparison.
func compareEnum(op types.Operator, value any, operands []string) bool {
	left, ok := toText(value)
	if !ok {
		return false
	}

	switch op {
	case types.OpEq:
		return left == strings.ToLower(operands[0])
	case types.OpNeq:
		return left != strings.ToLower(operands[0])
	case types.OpIn:
		return enumMember(left, operands)
	case types.OpNotIn:
		return !enumMember(left, operands)
	default:
		return false
	}
}

func enumMember(left string, set []string) bool {
	for _, v := range set {
		if left == strings.ToLower(v) {
			return true
		}
	}
	return false
}

// compareDate implements the numeric operator set over instants.
func compareDate(op types.Operator, value any, operands []string) bool {
	left, ok := toDate(value)
	if !ok {
		return false
	}

	switch op {
	case types.OpBetween, types.OpNotBetween:
		lo, ok1 := toDate(operands[0])
		hi, ok2 := toDate(operands[1])
		if !ok1 || !ok2 {
			return false
		}
		if lo.After(hi) {
			lo, hi = hi, lo
		}
		inside := !left.Before(lo) && !left.After(hi)
		if op == types.OpBetween {
			return inside
		}
		return !inside
	}

	right, ok := toDate(operands[0])
	if !ok {
		return false
	}

	switch op {
	case types.OpEq:
		return left.Equal(right)
	case types.OpNeq:
		return !left.Equal(right)
	case types.OpGt:
		return left.After(right)
	case types.OpLt:
		return left.Before(right)
	case types.OpGte:
		return !left.Before(right)
	case types.OpLte:
		return !left.After(right)
	default:
		return false
	}
}
