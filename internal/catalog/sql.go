package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solatis/promofilter/internal/core/db"
	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

// SQL is the catalog store backed by the catalog database. It implements
// Store, SnapshotFetcher, and Queryable.
type SQL struct {
	queries *db.Queries
	reg     *registry.Registry
}

// NewSQL creates a SQL catalog store over the given named queries,
// typed by reg.
func NewSQL(queries *db.Queries, reg *registry.Registry) (*SQL, error) {
	if queries == nil {
		return nil, fmt.Errorf("queries cannot be nil")
	}
	if reg == nil || reg.Len() == 0 {
		return nil, types.ErrEmptyRegistry
	}
	return &SQL{queries: queries, reg: reg}, nil
}

// Attribute implements Store. A missing product or property resolves to
// nil without error; NULL values also resolve to nil.
func (s *SQL) Attribute(ctx context.Context, id types.ProductID, property string) (any, error) {
	var value sql.NullString
	err := s.queries.Get(ctx, "get-attribute", &value, int64(id), property)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: product %d property %s: %v", types.ErrAttributeUnresolved, id, property, err)
	}
	if !value.Valid {
		return nil, nil
	}
	return value.String, nil
}

// Attributes implements SnapshotFetcher with a single IN query.
func (s *SQL) Attributes(ctx context.Context, id types.ProductID, properties []string) (map[string]any, error) {
	snap := make(map[string]any, len(properties))
	for _, p := range properties {
		snap[p] = nil
	}
	if len(properties) == 0 {
		return snap, nil
	}

	var rows []struct {
		Property string         `db:"property"`
		Value    sql.NullString `db:"value"`
	}
	err := s.queries.SelectIn(ctx, "list-attributes", &rows, int64(id), properties)
	if err != nil {
		return nil, fmt.Errorf("%w: product %d: %v", types.ErrAttributeUnresolved, id, err)
	}

	for _, row := range rows {
		if row.Value.Valid {
			snap[row.Property] = row.Value.String
		}
	}
	return snap, nil
}

// QueryByFilter implements Queryable by encoding the conditions to EXISTS
// predicates over the attribute table. The caller guarantees conds are
// indexable; an unencodable condition returns an error and the engine
// falls back to in-memory evaluation.
func (s *SQL) QueryByFilter(ctx context.Context, conds []types.Condition) ([]types.ProductID, error) {
	if len(conds) == 0 {
		return s.ProductIDs(ctx)
	}

	where, args, err := encodeFilter(s.reg, conds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pre-filter: %w", err)
	}

	query := "SELECT p.product_id FROM products p WHERE " + where + " ORDER BY p.product_id"
	conn := s.queries.DB()

	var ids []int64
	if err := conn.SelectContext(ctx, &ids, conn.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("pre-filter query failed: %w", err)
	}

	out := make([]types.ProductID, len(ids))
	for i, id := range ids {
		out[i] = types.ProductID(id)
	}
	return out, nil
}

// ProductIDs returns every catalog product id in ascending order.
func (s *SQL) ProductIDs(ctx context.Context) ([]types.ProductID, error) {
	var ids []int64
	if err := s.queries.Select(ctx, "list-products", &ids); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	out := make([]types.ProductID, len(ids))
	for i, id := range ids {
		out[i] = types.ProductID(id)
	}
	return out, nil
}

// UpsertProduct creates or renames a product row.
func (s *SQL) UpsertProduct(ctx context.Context, id types.ProductID, name string) error {
	_, err := s.queries.Exec(ctx, "insert-product", int64(id), name)
	if err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", id, err)
	}
	return nil
}

// UpsertAttribute writes one attribute value for a product.
func (s *SQL) UpsertAttribute(ctx context.Context, id types.ProductID, property, value string) error {
	_, err := s.queries.Exec(ctx, "upsert-attribute", int64(id), property, value)
	if err != nil {
		return fmt.Errorf("failed to upsert attribute %s for product %d: %w", property, id, err)
	}
	return nil
}

// DeleteProduct removes a product and its attributes.
func (s *SQL) DeleteProduct(ctx context.Context, id types.ProductID) error {
	if _, err := s.queries.Exec(ctx, "delete-product-attributes", int64(id)); err != nil {
		return fmt.Errorf("failed to delete attributes for product %d: %w", id, err)
	}
	if _, err := s.queries.Exec(ctx, "delete-product", int64(id)); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}
