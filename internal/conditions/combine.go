// internal/conditions/combine.go
package conditions

import "github.com/solatis/promofilter/internal/types"

// Aggregate combines per-condition contributions under the set's logic.
// ALL is a logical AND, ANY a logical OR. An empty result list is
// vacuously true for both modes: "no conditions" means "everything
// matches" regardless of logic, an explicit contract rather than an
// artifact of the loop shape.
func Aggregate(results []bool, logic types.Logic) bool {
	if logic == types.LogicAny {
		if len(results) == 0 {
			return true
		}
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}

	for _, r := range results {
		if !r {
			return false
		}
	}
	return true
}
