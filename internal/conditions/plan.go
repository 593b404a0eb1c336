// internal/conditions/plan.go
package conditions

import (
	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

/*
 * Query planning: the database/in-memory split.
 *
 * Split partitions a condition set into conditions the catalog store can
 * execute directly (indexable) and conditions that must evaluate in memory
 * (residual). The split is an optimization only: dropping it never changes
 * the final result, and every correctness constraint below exists to keep
 * that property.
 *
 * A condition is indexable only when all of:
 *   - logic is ALL. Under ANY, pushing any subset down would wrongly drop
 *     products that fail that condition but match another branch of the OR.
 *   - the property is store-queryable per the registry.
 *   - the operator is one the store executes directly
 *     (=, !=, >, <, >=, <=, in, not_in, between).
 *   - mode is include. A pushed-down NOT(pred) evaluates missing
 *     attributes to NULL and drops the row, while the in-memory contract
 *     says an unknown value satisfies an exclude.
 *   - the condition is not a numeric equality. The evaluator compares
 *     numeric = and != within a relative epsilon; stores compare exactly,
 *     so pushing those down could drop a product the evaluator keeps.
 *     Ordered numeric comparisons and BETWEEN are exact on both sides.
 */

// storePushdownOps is the operator set catalog stores execute directly.
var storePushdownOps = map[types.Operator]struct{}{
	types.OpEq:      {},
	types.OpNeq:     {},
	types.OpGt:      {},
	types.OpLt:      {},
	types.OpGte:     {},
	types.OpLte:     {},
	types.OpIn:      {},
	types.OpNotIn:   {},
	types.OpBetween: {},
}

// StoreExecutable reports whether the operator belongs to the direct
// pushdown set.
func StoreExecutable(op types.Operator) bool {
	_, ok := storePushdownOps[op]
	return ok
}

// Split partitions set into (indexable, residual). Relative condition
// order is preserved within each partition. Under ANY logic the indexable
// partition is always empty.
func Split(reg *registry.Registry, set types.ConditionSet) (indexable, residual []types.Condition) {
	if set.Logic == types.LogicAny {
		return nil, set.Conditions
	}

	for _, c := range set.Conditions {
		if Indexable(reg, c) {
			indexable = append(indexable, c)
		} else {
			residual = append(residual, c)
		}
	}
	return indexable, residual
}

// Indexable reports whether a single condition qualifies for store
// pushdown, independent of logic mode (Split enforces the ALL-only rule).
func Indexable(reg *registry.Registry, c types.Condition) bool {
	if c.Mode != types.ModeInclude {
		return false
	}
	if !reg.Queryable(c.Property) {
		return false
	}
	if reg.TypeOf(c.Property) == types.ValueTypeNumeric &&
		(c.Operator == types.OpEq || c.Operator == types.OpNeq) {
		return false
	}
	return StoreExecutable(c.Operator)
}
