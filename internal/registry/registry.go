// Package registry defines the attribute registry: the static table of
// catalog properties the filter engine can compare against.
//
// The registry is built once at process start and never mutated afterward.
// Accessors return copies, so callers cannot reach the internal tables.
// Unknown properties yield empty results or false, never errors.
package registry

import (
	"sort"

	"github.com/solatis/promofilter/internal/types"
)

// Attribute describes one filterable catalog property.
type Attribute struct {
	// Name is the property key conditions refer to.
	Name string

	// Type selects the evaluator dispatch arm and the valid operator set.
	Type types.ValueType

	// Queryable marks properties the catalog store can filter on directly.
	// Non-queryable properties (serialized or computed storage) always
	// evaluate in memory.
	Queryable bool

	// EnumValues documents the known value set for enum properties.
	// Informational only: normalization stays lenient and does not reject
	// values outside this list.
	EnumValues []string
}

// Property is the public description returned by SupportedProperties.
type Property struct {
	Name      string
	Type      types.ValueType
	Operators []types.Operator
}

// Registry is an immutable property table. Construct with New and share
// freely; all methods are safe for concurrent use.
type Registry struct {
	attrs map[string]Attribute
	names []string // sorted, for deterministic SupportedProperties order
}

// New builds a registry from the given attributes. Later duplicates of a
// name replace earlier ones. Attributes with empty names or unspecified
// types are ignored.
func New(attrs ...Attribute) *Registry {
	m := make(map[string]Attribute, len(attrs))
	for _, a := range attrs {
		if a.Name == "" || a.Type == types.ValueTypeUnspecified {
			continue
		}
		m[a.Name] = a
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{attrs: m, names: names}
}

// Default returns the commerce catalog registry used by the promotions
// layer. Properties mirror the catalog schema: numeric pricing and stock
// fields, boolean merchandising flags, enum taxonomies, and the creation
// date. weight and description live in serialized storage and are not
// store-queryable.
func Default() *Registry {
	return New(
		Attribute{Name: "price", Type: types.ValueTypeNumeric, Queryable: true},
		Attribute{Name: "sale_price", Type: types.ValueTypeNumeric, Queryable: true},
		Attribute{Name: "stock_quantity", Type: types.ValueTypeNumeric, Queryable: true},
		Attribute{Name: "rating", Type: types.ValueTypeNumeric, Queryable: true},
		Attribute{Name: "weight", Type: types.ValueTypeNumeric},
		Attribute{Name: "sku", Type: types.ValueTypeText, Queryable: true},
		Attribute{Name: "name", Type: types.ValueTypeText, Queryable: true},
		Attribute{Name: "description", Type: types.ValueTypeText},
		Attribute{Name: "featured", Type: types.ValueTypeBoolean, Queryable: true},
		Attribute{Name: "on_sale", Type: types.ValueTypeBoolean, Queryable: true},
		Attribute{
			Name:       "stock_status",
			Type:       types.ValueTypeEnum,
			Queryable:  true,
			EnumValues: []string{"instock", "outofstock", "onbackorder"},
		},
		Attribute{
			Name:       "product_type",
			Type:       types.ValueTypeEnum,
			Queryable:  true,
			EnumValues: []string{"simple", "variable", "grouped", "external"},
		},
		Attribute{Name: "category", Type: types.ValueTypeEnum, Queryable: true},
		Attribute{Name: "tag", Type: types.ValueTypeEnum, Queryable: true},
		Attribute{Name: "created_at", Type: types.ValueTypeDate, Queryable: true},
	)
}

// Len returns the number of registered properties.
func (r *Registry) Len() int {
	return len(r.attrs)
}

// HasProperty reports whether name is a registered property.
func (r *Registry) HasProperty(name string) bool {
	_, ok := r.attrs[name]
	return ok
}

// Lookup returns the attribute for name.
func (r *Registry) Lookup(name string) (Attribute, bool) {
	a, ok := r.attrs[name]
	return a, ok
}

// TypeOf returns the value type for name, or ValueTypeUnspecified when
// unknown.
func (r *Registry) TypeOf(name string) types.ValueType {
	a, ok := r.attrs[name]
	if !ok {
		return types.ValueTypeUnspecified
	}
	return a.Type
}

// Queryable reports whether the catalog store can filter on name directly.
func (r *Registry) Queryable(name string) bool {
	a, ok := r.attrs[name]
	return ok && a.Queryable
}

// OperatorsFor returns the valid operator set for name, empty when unknown.
func (r *Registry) OperatorsFor(name string) []types.Operator {
	a, ok := r.attrs[name]
	if !ok {
		return nil
	}
	return OperatorsForType(a.Type)
}

// ValidOperator reports whether op is in the valid set for name.
func (r *Registry) ValidOperator(name string, op types.Operator) bool {
	for _, valid := range r.OperatorsFor(name) {
		if op == valid {
			return true
		}
	}
	return false
}

// SupportedProperties returns the full property table in name order.
// The returned slices are copies; mutating them does not affect the
// registry.
func (r *Registry) SupportedProperties() []Property {
	props := make([]Property, 0, len(r.names))
	for _, name := range r.names {
		a := r.attrs[name]
		props = append(props, Property{
			Name:      a.Name,
			Type:      a.Type,
			Operators: OperatorsForType(a.Type),
		})
	}
	return props
}

// OperatorsForType returns a fresh copy of the operator set valid for a
// value type. Numeric and date share the ordered-comparison set; text gets
// the substring family; boolean only equality; enum equality plus
// membership.
func OperatorsForType(t types.ValueType) []types.Operator {
	switch t {
	case types.ValueTypeNumeric, types.ValueTypeDate:
		return []types.Operator{
			types.OpEq, types.OpNeq,
			types.OpGt, types.OpLt, types.OpGte, types.OpLte,
			types.OpBetween, types.OpNotBetween,
		}
	case types.ValueTypeText:
		return []types.Operator{
			types.OpEq, types.OpNeq,
			types.OpLike, types.OpNotLike,
			types.OpStartsWith, types.OpEndsWith,
		}
	case types.ValueTypeBoolean:
		return []types.Operator{types.OpEq, types.OpNeq}
	case types.ValueTypeEnum:
		return []types.Operator{
			types.OpEq, types.OpNeq,
			types.OpIn, types.OpNotIn,
		}
	default:
		return nil
	}
}
