// internal/conditions/normalize.go
package conditions

import (
	"strconv"
	"strings"

	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

/*
 * Condition normalization.
 *
 * Converts loosely-structured RawCondition records into the canonical,
 * validated ConditionSet the rest of the engine operates on. Validation is
 * deliberately lenient: malformed entries are dropped with a recorded
 * reason, never surfaced as a request-level error. Partial garbage in the
 * input degrades to "fewer active conditions".
 *
 * Per entry:
 *   1. Canonicalize the operator token (synonym folding, case folding)
 *   2. Check property against the registry and operator against the
 *      property's valid set
 *   3. Collect non-empty canonical values up to the operator's arity
 *      (two for the BETWEEN family, all values for the IN family, one
 *      otherwise) and drop the entry when fewer are present
 *
 * Logic and mode parsing share the same leniency: unrecognized tokens
 * fall back to ALL and include respectively.
 */

// Skipped records why one raw condition was dropped during normalization.
// Callers may log these; filtering behavior is unaffected.
type Skipped struct {
	Index  int   // position in the raw condition list
	Reason error // one of the types sentinel errors
}

// operator synonym table: external tokens folded onto canonical operators.
// Keys are lowercase; lookups fold case first.
var operatorSynonyms = map[string]types.Operator{
	"=":            types.OpEq,
	"==":           types.OpEq,
	"eq":           types.OpEq,
	"equals":       types.OpEq,
	"!=":           types.OpNeq,
	"<>":           types.OpNeq,
	"neq":          types.OpNeq,
	"not_equals":   types.OpNeq,
	">":            types.OpGt,
	"gt":           types.OpGt,
	"<":            types.OpLt,
	"lt":           types.OpLt,
	">=":           types.OpGte,
	"gte":          types.OpGte,
	"<=":           types.OpLte,
	"lte":          types.OpLte,
	"between":      types.OpBetween,
	"not_between":  types.OpNotBetween,
	"not between":  types.OpNotBetween,
	"like":         types.OpLike,
	"contains":     types.OpLike,
	"not_like":     types.OpNotLike,
	"not like":     types.OpNotLike,
	"starts_with":  types.OpStartsWith,
	"starts with":  types.OpStartsWith,
	"prefix":       types.OpStartsWith,
	"ends_with":    types.OpEndsWith,
	"ends with":    types.OpEndsWith,
	"suffix":       types.OpEndsWith,
	"in":           types.OpIn,
	"in_list":      types.OpIn,
	"not_in":       types.OpNotIn,
	"not in":       types.OpNotIn,
	"not_in_list":  types.OpNotIn,
}

// ParseOperator canonicalizes an external operator token.
func ParseOperator(raw string) (types.Operator, bool) {
	op, ok := operatorSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return op, ok
}

// ParseMode parses an external mode token. Anything other than an explicit
// exclude is include.
func ParseMode(raw string) types.Mode {
	if strings.EqualFold(strings.TrimSpace(raw), "exclude") {
		return types.ModeExclude
	}
	return types.ModeInclude
}

// ParseLogic parses an external logic token. Missing or unrecognized
// tokens default to ALL.
func ParseLogic(raw string) types.Logic {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "any", "or":
		return types.LogicAny
	default:
		return types.LogicAll
	}
}

// Normalize converts raw conditions and a raw logic token into a canonical
// ConditionSet, dropping malformed entries. Pure transform: no side
// effects, no errors. The second return lists what was dropped and why.
func Normalize(reg *registry.Registry, raw []types.RawCondition, rawLogic string) (types.ConditionSet, []Skipped) {
	set := types.ConditionSet{Logic: ParseLogic(rawLogic)}
	var skipped []Skipped

	for i, rc := range raw {
		if len(set.Conditions) >= types.MaxConditions {
			skipped = append(skipped, Skipped{Index: i, Reason: types.ErrTooManyConditions})
			continue
		}

		cond, reason := normalizeOne(reg, rc)
		if reason != nil {
			skipped = append(skipped, Skipped{Index: i, Reason: reason})
			continue
		}
		set.Conditions = append(set.Conditions, cond)
	}

	return set, skipped
}

// normalizeOne validates a single raw condition. Returns the reason it was
// dropped, or nil with the canonical condition.
func normalizeOne(reg *registry.Registry, rc types.RawCondition) (types.Condition, error) {
	prop := strings.TrimSpace(rc.Property)
	if prop == "" || !reg.HasProperty(prop) {
		return types.Condition{}, types.ErrUnknownProperty
	}

	if strings.TrimSpace(rc.Operator) == "" {
		return types.Condition{}, types.ErrUnknownOperator
	}
	op, ok := ParseOperator(rc.Operator)
	if !ok {
		return types.Condition{}, types.ErrUnknownOperator
	}
	if !reg.ValidOperator(prop, op) {
		return types.Condition{}, types.ErrOperatorMismatch
	}

	values, err := collectValues(op, rc.Values)
	if err != nil {
		return types.Condition{}, err
	}

	return types.Condition{
		Property: prop,
		Operator: op,
		Mode:     ParseMode(rc.Mode),
		Values:   values,
	}, nil
}

// collectValues gathers the canonical non-empty values the operator needs.
// Fixed-arity operators keep only the leading values they consume; the IN
// family keeps every non-empty value supplied.
func collectValues(op types.Operator, raw []any) ([]string, error) {
	var values []string
	for _, v := range raw {
		s := canonicalScalar(v)
		if s == "" {
			continue
		}
		if len(s) > types.MaxValueLength {
			return nil, types.ErrValueTooLong
		}
		values = append(values, s)
		if !op.Variadic() && len(values) == op.Arity() {
			break
		}
	}

	if len(values) < op.Arity() {
		return nil, types.ErrMissingValues
	}
	if op.Variadic() && len(values) > types.MaxInValues {
		return nil, types.ErrTooManyInValues
	}
	return values, nil
}

// canonicalScalar converts an external scalar to its canonical string
// form. Numbers format without trailing zeros so "10" and 10.0 fingerprint
// identically; unsupported shapes (objects, arrays) canonicalize to empty
// and are treated as absent.
func canonicalScalar(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	default:
		return ""
	}
}
