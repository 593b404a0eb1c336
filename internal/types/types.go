// Package types provides domain models shared across PromoFilter components.
//
// Zero-dependency design: types.go and errors.go use only the standard
// library so the engine can be embedded without pulling in storage or CLI
// dependencies. ID utilities in ids.go import uuid but are isolated for
// selective inclusion.
package types

// ProductID identifies a sellable item in the catalog.
// Integer identifiers mirror the catalog's primary key; the engine never
// interprets them beyond equality and ordering.
type ProductID int64

// ValueType classifies a catalog attribute for operator dispatch.
type ValueType int

const (
	ValueTypeUnspecified ValueType = iota
	ValueTypeNumeric
	ValueTypeText
	ValueTypeBoolean
	ValueTypeEnum
	ValueTypeDate
)

// String returns the lowercase name used in logs and SupportedProperties.
func (t ValueType) String() string {
	switch t {
	case ValueTypeNumeric:
		return "numeric"
	case ValueTypeText:
		return "text"
	case ValueTypeBoolean:
		return "boolean"
	case ValueTypeEnum:
		return "enum"
	case ValueTypeDate:
		return "date"
	default:
		return "unspecified"
	}
}

// Operator is the canonical token for a condition comparison.
// Canonical tokens are lowercase; ParseOperator folds common synonyms
// ("==", "eq", "IN") onto them during normalization.
type Operator string

const (
	OpEq         Operator = "="
	OpNeq        Operator = "!="
	OpGt         Operator = ">"
	OpLt         Operator = "<"
	OpGte        Operator = ">="
	OpLte        Operator = "<="
	OpBetween    Operator = "between"
	OpNotBetween Operator = "not_between"
	OpLike       Operator = "like"
	OpNotLike    Operator = "not_like"
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
)

// Arity returns the minimum number of values the operator requires.
// BETWEEN-family operators take exactly two bounds. IN-family operators
// take a variable-length value set; Arity reports the minimum (one) and
// normalization collects every non-empty value supplied.
func (op Operator) Arity() int {
	switch op {
	case OpBetween, OpNotBetween:
		return 2
	default:
		return 1
	}
}

// Variadic reports whether the operator consumes all supplied values
// rather than a fixed prefix.
func (op Operator) Variadic() bool {
	return op == OpIn || op == OpNotIn
}

// Mode controls whether a condition's raw comparison result is used
// directly (include) or inverted (exclude).
type Mode int

const (
	ModeInclude Mode = iota
	ModeExclude
)

// String returns "include" or "exclude".
func (m Mode) String() string {
	if m == ModeExclude {
		return "exclude"
	}
	return "include"
}

// Logic selects how per-condition results combine across a set.
type Logic int

const (
	LogicAll Logic = iota // AND: every condition must contribute true
	LogicAny              // OR: at least one condition must contribute true
)

// String returns "all" or "any".
func (l Logic) String() string {
	if l == LogicAny {
		return "any"
	}
	return "all"
}

// RawCondition is the loosely-structured external condition record handed
// to the engine by the campaign layer. Malformed entries are dropped during
// normalization, never rejected as a whole-request error.
type RawCondition struct {
	Property string `json:"property"`
	Operator string `json:"operator"`
	Mode     string `json:"mode"`   // "include" (default) or "exclude"
	Values   []any  `json:"values"` // scalars; coerced to canonical strings
}

// Condition is a single validated attribute comparison.
// Values hold the canonical string form of each operand; the evaluator
// re-parses them per the property's value type.
type Condition struct {
	Property string
	Operator Operator
	Mode     Mode
	Values   []string
}

// ConditionSet is an ordered list of validated conditions plus the logic
// that combines them. Immutable once built; constructed fresh per filter
// call and never persisted by the engine.
type ConditionSet struct {
	Conditions []Condition
	Logic      Logic
}

// Empty reports whether the set carries no active conditions.
// An empty set matches every candidate regardless of logic mode.
func (s ConditionSet) Empty() bool {
	return len(s.Conditions) == 0
}

// NumericEpsilon is the relative tolerance for numeric equality.
// Two numbers compare equal when their difference is within this fraction
// of the larger magnitude. Tunable constant; 1e-9 keeps currency-scale
// values exact while absorbing float parse round-trips.
const NumericEpsilon = 1e-9

// Resource limits enforced during normalization to bound evaluation cost.
const (
	// MaxConditions caps active conditions per filter call. 64 far exceeds
	// any campaign authored in practice; entries beyond the cap are skipped
	// like malformed ones.
	MaxConditions = 64

	// MaxInValues limits IN/NOT IN value sets to keep membership tests
	// linear in a small constant.
	MaxInValues = 128

	// MaxValueLength bounds a single operand's canonical string form.
	MaxValueLength = 1024
)
