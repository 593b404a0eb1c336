package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

/*
 * SQL predicate encoding for the pre-filter pushdown.
 *
 * Encodes indexable conditions into one EXISTS subquery per condition over
 * the EAV attribute table, conjoined with AND. Only the pushdown operator
 * set is encodable; the planner guarantees nothing else arrives here, and
 * the encoder returns an error for anything unexpected so the caller can
 * fall back to in-memory evaluation rather than run a wrong query.
 *
 * Type handling mirrors the evaluator where SQL can express it. Stored
 * values are trimmed first, matching the evaluator's coercion of padded
 * attribute text:
 *   - numeric: CAST(TRIM(value) AS NUMERIC), exact comparison
 *   - text/enum: LOWER(TRIM()) on the stored side
 *   - boolean: membership in the truthy/falsy literal sets
 *   - date: trimmed text comparison (ISO-8601 storage orders correctly)
 *
 * Placeholders are always ?; the store rebinds per driver.
 */

// encodeFilter builds the WHERE clause fragment and argument list for
// conds. The fragment references the products alias p.
func encodeFilter(reg *registry.Registry, conds []types.Condition) (string, []any, error) {
	var clauses []string
	var args []any

	for _, c := range conds {
		clause, condArgs, err := encodeCondition(reg, c)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
	}

	return strings.Join(clauses, " AND "), args, nil
}

// encodeCondition encodes one condition as an EXISTS subquery.
func encodeCondition(reg *registry.Registry, c types.Condition) (string, []any, error) {
	pred, args, err := encodePredicate(reg.TypeOf(c.Property), c)
	if err != nil {
		return "", nil, err
	}

	clause := "EXISTS (SELECT 1 FROM product_attributes a" +
		" WHERE a.product_id = p.product_id AND a.property = ? AND " + pred + ")"
	return clause, append([]any{c.Property}, args...), nil
}

// encodePredicate encodes the value comparison over column a.value.
func encodePredicate(t types.ValueType, c types.Condition) (string, []any, error) {
	switch t {
	case types.ValueTypeNumeric:
		return encodeNumeric(c)
	case types.ValueTypeText, types.ValueTypeEnum:
		return encodeText(c)
	case types.ValueTypeBoolean:
		return encodeBoolean(c)
	case types.ValueTypeDate:
		return encodeDate(c)
	default:
		return "", nil, fmt.Errorf("property %q is not encodable", c.Property)
	}
}

func encodeNumeric(c types.Condition) (string, []any, error) {
	operands := make([]float64, len(c.Values))
	for i, v := range c.Values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", nil, fmt.Errorf("numeric operand %q: %w", v, err)
		}
		operands[i] = f
	}

	const col = "CAST(TRIM(a.value) AS NUMERIC)"
	switch c.Operator {
	case types.OpEq, types.OpNeq, types.OpGt, types.OpLt, types.OpGte, types.OpLte:
		return col + " " + sqlComparison(c.Operator), []any{operands[0]}, nil
	case types.OpBetween:
		lo, hi := operands[0], operands[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return col + " BETWEEN ? AND ?", []any{lo, hi}, nil
	default:
		return "", nil, fmt.Errorf("operator %q not encodable for numeric", c.Operator)
	}
}

func encodeText(c types.Condition) (string, []any, error) {
	const col = "LOWER(TRIM(a.value))"
	switch c.Operator {
	case types.OpEq:
		return col + " = LOWER(?)", []any{c.Values[0]}, nil
	case types.OpNeq:
		return col + " <> LOWER(?)", []any{c.Values[0]}, nil
	case types.OpIn, types.OpNotIn:
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(c.Values)), ", ")
		args := make([]any, len(c.Values))
		for i, v := range c.Values {
			args[i] = strings.ToLower(v)
		}
		op := "IN"
		if c.Operator == types.OpNotIn {
			op = "NOT IN"
		}
		return col + " " + op + " (" + placeholders + ")", args, nil
	default:
		return "", nil, fmt.Errorf("operator %q not encodable for text", c.Operator)
	}
}

func encodeBoolean(c types.Condition) (string, []any, error) {
	target, ok := truthy(c.Values[0])
	if !ok {
		return "", nil, fmt.Errorf("boolean operand %q not a truthy/falsy literal", c.Values[0])
	}
	if c.Operator == types.OpNeq {
		target = !target
	} else if c.Operator != types.OpEq {
		return "", nil, fmt.Errorf("operator %q not encodable for boolean", c.Operator)
	}

	// Literal sets rather than casts: the catalog stores flags as yes/no
	// and friends
	if target {
		return "LOWER(TRIM(a.value)) IN ('1', 'true', 'yes', 'on')", nil, nil
	}
	return "LOWER(TRIM(a.value)) IN ('0', 'false', 'no', 'off', '')", nil, nil
}

func encodeDate(c types.Condition) (string, []any, error) {
	const col = "TRIM(a.value)"
	switch c.Operator {
	case types.OpEq, types.OpNeq, types.OpGt, types.OpLt, types.OpGte, types.OpLte:
		return col + " " + sqlComparison(c.Operator), []any{c.Values[0]}, nil
	case types.OpBetween:
		lo, hi := c.Values[0], c.Values[1]
		if strings.Compare(lo, hi) > 0 {
			lo, hi = hi, lo
		}
		return col + " BETWEEN ? AND ?", []any{lo, hi}, nil
	default:
		return "", nil, fmt.Errorf("operator %q not encodable for date", c.Operator)
	}
}

// sqlComparison maps a binary comparison operator to its SQL spelling with
// a trailing placeholder.
func sqlComparison(op types.Operator) string {
	switch op {
	case types.OpEq:
		return "= ?"
	case types.OpNeq:
		return "<> ?"
	case types.OpGt:
		return "> ?"
	case types.OpLt:
		return "< ?"
	case types.OpGte:
		return ">= ?"
	default:
		return "<= ?"
	}
}
