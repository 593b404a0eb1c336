// internal/conditions/evaluate_test.go
package conditions

import (
	"testing"

	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

func TestEvaluate(t *testing.T) {
	reg := registry.Default()

	tests := []struct {
		name string
		snap Snapshot
		cond types.Condition
		want bool
	}{
		{
			name: "numeric include match",
			snap: Snapshot{"price": "19.99"},
			cond: types.Condition{Property: "price", Operator: types.OpLt, Mode: types.ModeInclude, Values: []string{"20"}},
			want: true,
		},
		{
			name: "numeric include miss",
			snap: Snapshot{"price": "25.00"},
			cond: types.Condition{Property: "price", Operator: types.OpLt, Mode: types.ModeInclude, Values: []string{"20"}},
			want: false,
		},
		{
			name: "exclude inverts a match",
			snap: Snapshot{"stock_status": "instock"},
			cond: types.Condition{Property: "stock_status", Operator: types.OpEq, Mode: types.ModeExclude, Values: []string{"instock"}},
			want: false,
		},
		{
			name: "exclude inverts a miss",
			snap: Snapshot{"stock_status": "outofstock"},
			cond: types.Condition{Property: "stock_status", Operator: types.OpEq, Mode: types.ModeExclude, Values: []string{"instock"}},
			want: true,
		},
		{
			name: "missing attribute never satisfies include",
			snap: Snapshot{},
			cond: types.Condition{Property: "price", Operator: types.OpGt, Mode: types.ModeInclude, Values: []string{"0"}},
			want: false,
		},
		{
			name: "nil attribute never satisfies include",
			snap: Snapshot{"price": nil},
			cond: types.Condition{Property: "price", Operator: types.OpGt, Mode: types.ModeInclude, Values: []string{"0"}},
			want: false,
		},
		{
			name: "missing attribute always satisfies exclude",
			snap: Snapshot{},
			cond: types.Condition{Property: "price", Operator: types.OpGt, Mode: types.ModeExclude, Values: []string{"0"}},
			want: true,
		},
		{
			name: "unparseable attribute counts as non-match",
			snap: Snapshot{"price": "n/a"},
			cond: types.Condition{Property: "price", Operator: types.OpGte, Mode: types.ModeInclude, Values: []string{"0"}},
			want: false,
		},
		{
			name: "unparseable attribute satisfies exclude",
			snap: Snapshot{"price": "n/a"},
			cond: types.Condition{Property: "price", Operator: types.OpGte, Mode: types.ModeExclude, Values: []string{"0"}},
			want: true,
		},
		{
			name: "boolean yes flag",
			snap: Snapshot{"featured": "yes"},
			cond: types.Condition{Property: "featured", Operator: types.OpEq, Mode: types.ModeInclude, Values: []string{"true"}},
			want: true,
		},
		{
			name: "enum membership",
			snap: Snapshot{"category": "Shoes"},
			cond: types.Condition{Property: "category", Operator: types.OpIn, Mode: types.ModeInclude, Values: []string{"shoes", "hats"}},
			want: true,
		},
		{
			name: "date between",
			snap: Snapshot{"created_at": "2024-06-15"},
			cond: types.Condition{Property: "created_at", Operator: types.OpBetween, Mode: types.ModeInclude, Values: []string{"2024-06-01", "2024-06-30"}},
			want: true,
		},
		{
			name: "text like",
			snap: Snapshot{"name": "Waterproof Hiking Boots"},
			cond: types.Condition{Property: "name", Operator: types.OpLike, Mode: types.ModeInclude, Values: []string{"hiking"}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(reg, tt.snap, tt.cond); got != tt.want {
				t.Errorf("Evaluate(%+v) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestReferencedProperties(t *testing.T) {
	conds := []types.Condition{
		{Property: "price"},
		{Property: "category"},
		{Property: "price"},
		{Property: "featured"},
	}

	got := ReferencedProperties(conds)
	want := []string{"price", "category", "featured"}
	if len(got) != len(want) {
		t.Fatalf("ReferencedProperties() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReferencedProperties()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
