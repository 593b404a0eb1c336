// internal/conditions/evaluate.go
package conditions

import (
	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

/*
 * Condition evaluation.
 *
 * Evaluates a single condition against a per-product attribute snapshot.
 * Dispatch is by the property's value type, each arm a pure comparison
 * function in operators.go.
 *
 * Edge behavior (defined, not accidental): a missing or unparseable
 * attribute value makes the raw comparison false before mode inversion.
 * An unknown value therefore never satisfies an include condition and
 * always satisfies an exclude condition.
 */

// Snapshot is the ephemeral per-product attribute map, fetched lazily for
// one filter invocation and discarded afterward. A property that resolved
// to null (or failed to resolve) is present with a nil value.
type Snapshot map[string]any

// Evaluate returns the condition's contribution for the product described
// by snap: the raw typed comparison, then mode inversion.
func Evaluate(reg *registry.Registry, snap Snapshot, cond types.Condition) bool {
	raw := evaluateRaw(reg, snap, cond)
	if cond.Mode == types.ModeExclude {
		return !raw
	}
	return raw
}

// evaluateRaw computes the comparison before mode is applied.
func evaluateRaw(reg *registry.Registry, snap Snapshot, cond types.Condition) bool {
	value, ok := snap[cond.Property]
	if !ok || value == nil {
		return false
	}

	switch reg.TypeOf(cond.Property) {
	case types.ValueTypeNumeric:
		return compareNumeric(cond.Operator, value, cond.Values)
	case types.ValueTypeText:
		return compareText(cond.Operator, value, cond.Values)
	case types.ValueTypeBoolean:
		return compareBool(cond.Operator, value, cond.Values)
	case types.ValueTypeEnum:
		return compareEnum(cond.Operator, value, cond.Values)
	case types.ValueTypeDate:
		return compareDate(cond.Operator, value, cond.Values)
	default:
		// Property left the registry between normalize and evaluate;
		// treat like an unresolvable attribute.
		return false
	}
}

// ReferencedProperties returns the distinct property names the conditions
// touch, in first-seen order. The engine fetches only these into each
// snapshot.
func ReferencedProperties(conds []types.Condition) []string {
	seen := make(map[string]struct{}, len(conds))
	var props []string
	for _, c := range conds {
		if _, ok := seen[c.Property]; ok {
			continue
		}
		seen[c.Property] = struct{}{}
		props = append(props, c.Property)
	}
	return props
}
