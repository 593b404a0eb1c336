package catalog

import (
	"context"
	"reflect"
	"testing"

	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

func seedMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(registry.Default())
	m.SetProduct(10, map[string]any{
		"price":        "19.99",
		"category":     "shoes",
		"featured":     "yes",
		"stock_status": "instock",
		"created_at":   "2024-06-10",
	})
	m.SetProduct(20, map[string]any{
		"price":        "89.00",
		"category":     "hats",
		"featured":     "no",
		"stock_status": "outofstock",
		"created_at":   "2024-01-05",
	})
	m.SetProduct(30, map[string]any{
		"price":    "45.50",
		"category": "Shoes",
		"featured": "0",
	})
	return m
}

func TestMemory_Attribute(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	got, err := m.Attribute(ctx, 10, "price")
	if err != nil {
		t.Fatalf("Attribute() error = %v, want nil", err)
	}
	if got != "19.99" {
		t.Errorf("Attribute(10, price) = %v, want 19.99", got)
	}

	// Unknown product and unknown property resolve to nil, not errors.
	if got, err := m.Attribute(ctx, 99, "price"); err != nil || got != nil {
		t.Errorf("Attribute(99, price) = (%v, %v), want (nil, nil)", got, err)
	}
	if got, err := m.Attribute(ctx, 10, "giraffe"); err != nil || got != nil {
		t.Errorf("Attribute(10, giraffe) = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestMemory_Attributes(t *testing.T) {
	m := seedMemory(t)

	got, err := m.Attributes(context.Background(), 10, []string{"price", "category", "weight"})
	if err != nil {
		t.Fatalf("Attributes() error = %v, want nil", err)
	}
	if got["price"] != "19.99" || got["category"] != "shoes" {
		t.Errorf("Attributes() = %v, want price and category populated", got)
	}
	if v, ok := got["weight"]; !ok || v != nil {
		t.Errorf("Attributes()[weight] = (%v, %v), want present with nil value", v, ok)
	}
}

func TestMemory_SetAttribute(t *testing.T) {
	m := NewMemory(registry.Default())
	m.SetAttribute(5, "price", "12.00")
	m.SetAttribute(5, "price", "13.00")

	got, err := m.Attribute(context.Background(), 5, "price")
	if err != nil {
		t.Fatalf("Attribute() error = %v, want nil", err)
	}
	if got != "13.00" {
		t.Errorf("Attribute(5, price) = %v, want last write 13.00", got)
	}
}

func TestMemory_ProductIDs(t *testing.T) {
	m := seedMemory(t)

	got := m.ProductIDs()
	want := []types.ProductID{10, 20, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProductIDs() = %v, want %v", got, want)
	}
}

func TestMemory_QueryByFilter(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		conds []types.Condition
		want  []types.ProductID
	}{
		{
			name: "numeric range",
			conds: []types.Condition{
				{Property: "price", Operator: types.OpLt, Values: []string{"50"}},
			},
			want: []types.ProductID{10, 30},
		},
		{
			name: "between includes bounds",
			conds: []types.Condition{
				{Property: "price", Operator: types.OpBetween, Values: []string{"19.99", "45.50"}},
			},
			want: []types.ProductID{10, 30},
		},
		{
			name: "enum equality is case folded",
			conds: []types.Condition{
				{Property: "category", Operator: types.OpEq, Values: []string{"SHOES"}},
			},
			want: []types.ProductID{10, 30},
		},
		{
			name: "boolean yes literal",
			conds: []types.Condition{
				{Property: "featured", Operator: types.OpEq, Values: []string{"true"}},
			},
			want: []types.ProductID{10},
		},
		{
			name: "conjunction",
			conds: []types.Condition{
				{Property: "category", Operator: types.OpIn, Values: []string{"shoes", "hats"}},
				{Property: "price", Operator: types.OpGt, Values: []string{"40"}},
			},
			want: []types.ProductID{20, 30},
		},
		{
			name: "missing attribute never matches",
			conds: []types.Condition{
				{Property: "stock_status", Operator: types.OpEq, Values: []string{"instock"}},
			},
			want: []types.ProductID{10},
		},
		{
			name: "date compare orders as text",
			conds: []types.Condition{
				{Property: "created_at", Operator: types.OpGte, Values: []string{"2024-06-01"}},
			},
			want: []types.ProductID{10},
		},
		{
			name:  "no conditions matches everything",
			conds: nil,
			want:  []types.ProductID{10, 20, 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.QueryByFilter(ctx, tt.conds)
			if err != nil {
				t.Fatalf("QueryByFilter() error = %v, want nil", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryByFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}
