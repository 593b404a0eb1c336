// Package catalog defines the catalog store collaborator contract and two
// implementations: an in-memory store for tests and embedding, and a
// SQL-backed store over the catalog database.
//
// The engine requires only attribute lookups. Pre-filtering is an optional
// capability discovered by interface assertion; the engine stays fully
// correct, just slower, against a store that does not implement it.
package catalog

import (
	"context"

	"github.com/solatis/promofilter/internal/types"
)

// Store answers attribute lookups for single products.
type Store interface {
	// Attribute returns the scalar value of property for id, or nil when
	// the product or property is absent. Errors indicate a store-level
	// failure; the engine treats those as unresolved attributes and
	// continues.
	Attribute(ctx context.Context, id types.ProductID, property string) (any, error)
}

// Queryable is the optional pre-filter capability. QueryByFilter returns
// the ids of all products satisfying every one of the given indexable
// conditions (AND semantics), in ascending id order.
type Queryable interface {
	QueryByFilter(ctx context.Context, conds []types.Condition) ([]types.ProductID, error)
}

// SnapshotFetcher is the optional batch-lookup capability. Stores that can
// resolve several properties in one round trip implement it; the engine
// falls back to per-property Attribute calls otherwise.
type SnapshotFetcher interface {
	Attributes(ctx context.Context, id types.ProductID, properties []string) (map[string]any, error)
}
