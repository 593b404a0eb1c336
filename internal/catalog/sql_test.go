package catalog

import (
	"context"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/solatis/promofilter/internal/core/db"
	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

// newSQLStore migrates a throwaway SQLite database and seeds the shared
// product fixture.
func newSQLStore(t *testing.T) *SQL {
	t.Helper()

	conn, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sqlx.Open() error = %v, want nil", err)
	}
	// A pooled :memory: database is one database per connection.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp() error = %v, want nil", err)
	}

	queries, err := db.LoadQueries(conn)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v, want nil", err)
	}

	store, err := NewSQL(queries, registry.Default())
	if err != nil {
		t.Fatalf("NewSQL() error = %v, want nil", err)
	}

	ctx := context.Background()
	seed := []struct {
		id    types.ProductID
		name  string
		attrs map[string]string
	}{
		{1, "Trail Runner", map[string]string{
			"price": "25.00", "category": "shoes", "featured": "yes", "stock_status": "instock",
		}},
		{2, "Alpine Boot", map[string]string{
			"price": "75.00", "category": "shoes", "featured": "no", "stock_status": "outofstock",
		}},
		{3, "Sun Hat", map[string]string{
			"price": "40.00", "category": "hats", "featured": "no",
		}},
	}
	for _, p := range seed {
		if err := store.UpsertProduct(ctx, p.id, p.name); err != nil {
			t.Fatalf("UpsertProduct(%d) error = %v, want nil", p.id, err)
		}
		for prop, value := range p.attrs {
			if err := store.UpsertAttribute(ctx, p.id, prop, value); err != nil {
				t.Fatalf("UpsertAttribute(%d, %s) error = %v, want nil", p.id, prop, err)
			}
		}
	}
	return store
}

func TestSQL_Attribute(t *testing.T) {
	store := newSQLStore(t)
	ctx := context.Background()

	got, err := store.Attribute(ctx, 1, "price")
	if err != nil {
		t.Fatalf("Attribute() error = %v, want nil", err)
	}
	if got != "25.00" {
		t.Errorf("Attribute(1, price) = %v, want 25.00", got)
	}

	// Absent rows resolve to nil without an error.
	got, err = store.Attribute(ctx, 3, "stock_status")
	if err != nil {
		t.Fatalf("Attribute() error = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("Attribute(3, stock_status) = %v, want nil", got)
	}
}

func TestSQL_Attributes(t *testing.T) {
	store := newSQLStore(t)

	got, err := store.Attributes(context.Background(), 1, []string{"price", "category", "weight"})
	if err != nil {
		t.Fatalf("Attributes() error = %v, want nil", err)
	}
	if got["price"] != "25.00" || got["category"] != "shoes" {
		t.Errorf("Attributes() = %v, want price and category populated", got)
	}
	if v, ok := got["weight"]; !ok || v != nil {
		t.Errorf("Attributes()[weight] = (%v, %v), want present with nil value", v, ok)
	}
}

func TestSQL_QueryByFilter(t *testing.T) {
	store := newSQLStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		conds []types.Condition
		want  []types.ProductID
	}{
		{
			name: "numeric between",
			conds: []types.Condition{
				{Property: "price", Operator: types.OpBetween, Values: []string{"10", "50"}},
			},
			want: []types.ProductID{1, 3},
		},
		{
			name: "enum equality",
			conds: []types.Condition{
				{Property: "category", Operator: types.OpEq, Values: []string{"SHOES"}},
			},
			want: []types.ProductID{1, 2},
		},
		{
			name: "boolean flag",
			conds: []types.Condition{
				{Property: "featured", Operator: types.OpEq, Values: []string{"true"}},
			},
			want: []types.ProductID{1},
		},
		{
			name: "conjunction",
			conds: []types.Condition{
				{Property: "category", Operator: types.OpIn, Values: []string{"shoes", "hats"}},
				{Property: "price", Operator: types.OpGt, Values: []string{"30"}},
			},
			want: []types.ProductID{2, 3},
		},
		{
			name: "missing attribute never matches",
			conds: []types.Condition{
				{Property: "stock_status", Operator: types.OpEq, Values: []string{"instock"}},
			},
			want: []types.ProductID{1},
		},
		{
			name:  "no conditions lists everything",
			conds: nil,
			want:  []types.ProductID{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.QueryByFilter(ctx, tt.conds)
			if err != nil {
				t.Fatalf("QueryByFilter() error = %v, want nil", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryByFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Stored values sometimes arrive whitespace-padded from upstream feeds.
// The evaluator trims before comparing, so the pushdown query must too:
// the pre-filter may never drop a product the evaluator would keep.
func TestSQL_QueryByFilter_PaddedValues(t *testing.T) {
	store := newSQLStore(t)
	ctx := context.Background()

	if err := store.UpsertProduct(ctx, 9, "Padded"); err != nil {
		t.Fatalf("UpsertProduct() error = %v, want nil", err)
	}
	padded := map[string]string{
		"sku":      "  ABC-1  ",
		"price":    " 19.99 ",
		"featured": " yes ",
		"category": " shoes ",
	}
	for prop, value := range padded {
		if err := store.UpsertAttribute(ctx, 9, prop, value); err != nil {
			t.Fatalf("UpsertAttribute(%s) error = %v, want nil", prop, err)
		}
	}

	tests := []struct {
		name string
		cond types.Condition
	}{
		{
			name: "text equality",
			cond: types.Condition{Property: "sku", Operator: types.OpEq, Values: []string{"abc-1"}},
		},
		{
			name: "numeric comparison",
			cond: types.Condition{Property: "price", Operator: types.OpLt, Values: []string{"20"}},
		},
		{
			name: "boolean flag",
			cond: types.Condition{Property: "featured", Operator: types.OpEq, Values: []string{"true"}},
		},
		{
			name: "enum membership",
			cond: types.Condition{Property: "category", Operator: types.OpIn, Values: []string{"shoes"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.QueryByFilter(ctx, []types.Condition{tt.cond})
			if err != nil {
				t.Fatalf("QueryByFilter() error = %v, want nil", err)
			}
			found := false
			for _, id := range got {
				if id == 9 {
					found = true
				}
			}
			if !found {
				t.Errorf("QueryByFilter(%+v) = %v, want product 9 included", tt.cond, got)
			}
		})
	}
}

func TestSQL_UpsertOverwrites(t *testing.T) {
	store := newSQLStore(t)
	ctx := context.Background()

	if err := store.UpsertAttribute(ctx, 1, "price", "30.00"); err != nil {
		t.Fatalf("UpsertAttribute() error = %v, want nil", err)
	}
	got, err := store.Attribute(ctx, 1, "price")
	if err != nil {
		t.Fatalf("Attribute() error = %v, want nil", err)
	}
	if got != "30.00" {
		t.Errorf("Attribute(1, price) = %v, want 30.00 after upsert", got)
	}
}

func TestSQL_DeleteProduct(t *testing.T) {
	store := newSQLStore(t)
	ctx := context.Background()

	if err := store.DeleteProduct(ctx, 2); err != nil {
		t.Fatalf("DeleteProduct() error = %v, want nil", err)
	}

	ids, err := store.ProductIDs(ctx)
	if err != nil {
		t.Fatalf("ProductIDs() error = %v, want nil", err)
	}
	if !reflect.DeepEqual(ids, []types.ProductID{1, 3}) {
		t.Errorf("ProductIDs() = %v, want [1 3]", ids)
	}

	got, err := store.Attribute(ctx, 2, "price")
	if err != nil {
		t.Fatalf("Attribute() error = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("Attribute(2, price) = %v, want nil after delete", got)
	}
}
