package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

/*
 * In-memory catalog store.
 *
 * Map-backed store for tests and embedded use. Implements the optional
 * Queryable capability with its own naive matcher rather than delegating
 * to the evaluator, so the pushdown and in-memory paths stay independent
 * code paths that can be checked against each other.
 */

// Memory is a thread-safe in-memory catalog.
type Memory struct {
	mu    sync.RWMutex
	reg   *registry.Registry
	attrs map[types.ProductID]map[string]any
}

// NewMemory creates an empty in-memory catalog typed by reg.
func NewMemory(reg *registry.Registry) *Memory {
	return &Memory{
		reg:   reg,
		attrs: make(map[types.ProductID]map[string]any),
	}
}

// SetProduct replaces all attributes of id.
func (m *Memory) SetProduct(id types.ProductID, attrs map[string]any) {
	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	m.mu.Lock()
	m.attrs[id] = copied
	m.mu.Unlock()
}

// SetAttribute sets a single attribute of id, creating the product if
// needed.
func (m *Memory) SetAttribute(id types.ProductID, property string, value any) {
	m.mu.Lock()
	if m.attrs[id] == nil {
		m.attrs[id] = make(map[string]any)
	}
	m.attrs[id][property] = value
	m.mu.Unlock()
}

// Attribute implements Store.
func (m *Memory) Attribute(_ context.Context, id types.ProductID, property string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	attrs, ok := m.attrs[id]
	if !ok {
		return nil, nil
	}
	return attrs[property], nil
}

// Attributes implements SnapshotFetcher.
func (m *Memory) Attributes(_ context.Context, id types.ProductID, properties []string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]any, len(properties))
	attrs := m.attrs[id]
	for _, p := range properties {
		if attrs != nil {
			snap[p] = attrs[p]
		} else {
			snap[p] = nil
		}
	}
	return snap, nil
}

// ProductIDs returns every stored product id in ascending order.
func (m *Memory) ProductIDs() []types.ProductID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]types.ProductID, 0, len(m.attrs))
	for id := range m.attrs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// QueryByFilter implements Queryable with AND semantics over the given
// conditions, ascending id order.
func (m *Memory) QueryByFilter(_ context.Context, conds []types.Condition) ([]types.ProductID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []types.ProductID
	for id, attrs := range m.attrs {
		all := true
		for _, c := range conds {
			if !m.naiveMatch(attrs, c) {
				all = false
				break
			}
		}
		if all {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// naiveMatch executes one pushdown condition the way a database would:
// numeric when both sides parse as numbers, case-folded text otherwise,
// truthy literals for boolean properties. Only the pushdown operator set
// is understood; anything else does not match.
func (m *Memory) naiveMatch(attrs map[string]any, c types.Condition) bool {
	value, ok := attrs[c.Property]
	if !ok || value == nil {
		return false
	}

	if m.reg.TypeOf(c.Property) == types.ValueTypeBoolean {
		return m.naiveBoolMatch(value, c)
	}

	left := scalarString(value)

	switch c.Operator {
	case types.OpEq:
		return scalarEqual(left, c.Values[0])
	case types.OpNeq:
		return !scalarEqual(left, c.Values[0])
	case types.OpGt:
		return scalarCompare(left, c.Values[0]) > 0
	case types.OpLt:
		return scalarCompare(left, c.Values[0]) < 0
	case types.OpGte:
		return scalarCompare(left, c.Values[0]) >= 0
	case types.OpLte:
		return scalarCompare(left, c.Values[0]) <= 0
	case types.OpBetween:
		lo, hi := c.Values[0], c.Values[1]
		if scalarCompare(lo, hi) > 0 {
			lo, hi = hi, lo
		}
		return scalarCompare(left, lo) >= 0 && scalarCompare(left, hi) <= 0
	case types.OpIn:
		for _, v := range c.Values {
			if scalarEqual(left, v) {
				return true
			}
		}
		return false
	case types.OpNotIn:
		for _, v := range c.Values {
			if scalarEqual(left, v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// naiveBoolMatch compares truthy literal sets the way the SQL encoder does.
func (m *Memory) naiveBoolMatch(value any, c types.Condition) bool {
	left, ok := truthy(scalarString(value))
	if !ok {
		return false
	}
	right, ok := truthy(c.Values[0])
	if !ok {
		return false
	}
	switch c.Operator {
	case types.OpEq:
		return left == right
	case types.OpNeq:
		return left != right
	default:
		return false
	}
}

// scalarString renders a stored attribute the way the SQL store's TEXT
// column would.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// scalarEqual is numeric equality when both sides parse as numbers,
// case-folded string equality otherwise.
func scalarEqual(a, b string) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// scalarCompare is a three-way compare: numeric when both sides parse,
// case-folded lexicographic otherwise (ISO dates order correctly as text).
func scalarCompare(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(
		strings.ToLower(strings.TrimSpace(a)),
		strings.ToLower(strings.TrimSpace(b)),
	)
}

// truthy maps stored boolean literals onto bool.
func truthy(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off", "":
		return false, true
	default:
		return false, false
	}
}
