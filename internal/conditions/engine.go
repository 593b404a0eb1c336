// internal/conditions/engine.go
package conditions

import (
	"context"
	"log/slog"
	"time"

	"github.com/solatis/promofilter/internal/cache"
	"github.com/solatis/promofilter/internal/catalog"
	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
)

/*
 * Engine orchestration.
 *
 * Apply wires the pipeline: normalize -> cache lookup -> plan ->
 * store pre-filter (ALL logic only) -> residual evaluation over lazily
 * fetched snapshots -> combine -> cache store.
 *
 * Apply is total. Malformed conditions are skipped during normalization,
 * unresolved attributes count as non-matches, and a failing cache or
 * pre-filter degrades to computing in memory. The only errors the engine
 * ever returns are construction-time precondition violations.
 *
 * The cache stores the matched id set keyed by a fingerprint over the
 * *sorted* candidate set, so callers passing the same set in different
 * orders share one entry. Hits are re-projected through the caller's
 * candidate order, which also preserves order on the compute path.
 */

// DefaultCacheTTL bounds staleness of memoized filter results.
const DefaultCacheTTL = 10 * time.Minute

// Engine evaluates condition sets against catalog products.
// Stateless apart from the cache; safe for concurrent use.
type Engine struct {
	reg     *registry.Registry
	catalog catalog.Store
	cache   cache.Store
	ttl     time.Duration
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache sets the result cache and entry TTL. Without this option the
// engine runs in always-compute mode.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(e *Engine) {
		if store != nil {
			e.cache = store
		}
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithLogger sets the structured logger for skip and degradation events.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an engine over the given registry and catalog store.
// Registry and store presence are the startup preconditions; everything
// past construction degrades instead of failing.
func New(reg *registry.Registry, store catalog.Store, opts ...Option) (*Engine, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, types.ErrEmptyRegistry
	}
	if store == nil {
		return nil, types.ErrNilCatalog
	}

	e := &Engine{
		reg:     reg,
		catalog: store,
		cache:   cache.NewNoop(),
		ttl:     DefaultCacheTTL,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Apply filters candidates down to the products satisfying the condition
// set. The result preserves the relative order of candidates. Apply never
// fails: it always returns a (possibly empty) list.
func (e *Engine) Apply(ctx context.Context, candidates []types.ProductID, raw []types.RawCondition, rawLogic string) []types.ProductID {
	run := types.NewRunID()

	set, skipped := Normalize(e.reg, raw, rawLogic)
	for _, s := range skipped {
		e.log.Debug("condition skipped",
			"run_id", string(run), "index", s.Index, "reason", s.Reason.Error())
	}

	// No active conditions: everything matches, in both logic modes.
	if set.Empty() {
		out := make([]types.ProductID, len(candidates))
		copy(out, candidates)
		return out
	}

	key := Fingerprint(candidates, set)
	if cached, ok := e.cache.Get(key); ok {
		if matched, ok := cached.([]types.ProductID); ok {
			e.log.Debug("result cache hit", "run_id", string(run), "key", key)
			return project(candidates, matched)
		}
		// Foreign value under our key; recompute and overwrite.
		e.log.Warn("result cache entry has unexpected type", "run_id", string(run), "key", key)
	}

	surviving, residual := e.prefilter(ctx, run, candidates, set)

	props := ReferencedProperties(residual)
	var matched []types.ProductID
	for _, id := range surviving {
		snap := e.snapshot(ctx, run, id, props)
		results := make([]bool, len(residual))
		for i, c := range residual {
			results[i] = Evaluate(e.reg, snap, c)
		}
		if Aggregate(results, set.Logic) {
			matched = append(matched, id)
		}
	}

	if err := e.cache.Set(key, matched, e.ttl); err != nil {
		// CacheUnavailable: compute-only from here on, never a failure
		e.log.Warn("result cache unavailable", "run_id", string(run), "error", err)
	}

	return project(candidates, matched)
}

// prefilter pushes indexable conditions down to the catalog store when
// logic is ALL and the store supports querying. Any failure keeps the full
// condition set residual; the split is an optimization only and must never
// change the result.
func (e *Engine) prefilter(ctx context.Context, run types.RunID, candidates []types.ProductID, set types.ConditionSet) ([]types.ProductID, []types.Condition) {
	if set.Logic != types.LogicAll {
		return candidates, set.Conditions
	}

	indexable, residual := Split(e.reg, set)
	if len(indexable) == 0 {
		return candidates, set.Conditions
	}

	queryable, ok := e.catalog.(catalog.Queryable)
	if !ok {
		return candidates, set.Conditions
	}

	ids, err := queryable.QueryByFilter(ctx, indexable)
	if err != nil {
		e.log.Warn("pre-filter query failed, evaluating all conditions in memory",
			"run_id", string(run), "error", err)
		return candidates, set.Conditions
	}

	allowed := make(map[types.ProductID]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}

	surviving := make([]types.ProductID, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := allowed[id]; ok {
			surviving = append(surviving, id)
		}
	}
	return surviving, residual
}

// snapshot fetches the referenced properties for one product. A store
// failure resolves the property to nil, which evaluates as a non-match;
// one bad record never aborts the call.
func (e *Engine) snapshot(ctx context.Context, run types.RunID, id types.ProductID, props []string) Snapshot {
	if fetcher, ok := e.catalog.(catalog.SnapshotFetcher); ok {
		attrs, err := fetcher.Attributes(ctx, id, props)
		if err == nil {
			return Snapshot(attrs)
		}
		e.log.Debug("batch attribute fetch failed, falling back to point lookups",
			"run_id", string(run), "product_id", int64(id), "error", err)
	}

	snap := make(Snapshot, len(props))
	for _, p := range props {
		value, err := e.catalog.Attribute(ctx, id, p)
		if err != nil {
			e.log.Debug("attribute unresolved",
				"run_id", string(run), "product_id", int64(id), "property", p, "error", err)
			value = nil
		}
		snap[p] = value
	}
	return snap
}

// project returns the members of matched in candidates order.
func project(candidates, matched []types.ProductID) []types.ProductID {
	allowed := make(map[types.ProductID]struct{}, len(matched))
	for _, id := range matched {
		allowed[id] = struct{}{}
	}

	out := make([]types.ProductID, 0, len(matched))
	for _, id := range candidates {
		if _, ok := allowed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
