package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/solatis/promofilter/internal/cache"
	"github.com/solatis/promofilter/internal/catalog"
	"github.com/solatis/promofilter/internal/conditions"
	"github.com/solatis/promofilter/internal/core/config"
	"github.com/solatis/promofilter/internal/core/db"
	"github.com/solatis/promofilter/internal/core/logging"
	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
	"github.com/spf13/cobra"
)

// filterRequest is the conditions file format: the raw inputs the engine
// accepts, as authored by the campaign layer.
type filterRequest struct {
	Logic      string               `json:"logic"`
	Conditions []types.RawCondition `json:"conditions"`
}

var (
	conditionsFile string
	candidatesFlag string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Apply a condition set against the catalog database",
	Long: `Reads a conditions file and prints the matching product ids.
Candidates default to every product in the catalog.`,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringVar(&conditionsFile, "conditions", "", "conditions JSON file")
	filterCmd.Flags().StringVar(&candidatesFlag, "candidates", "", "comma-separated candidate product ids (default: all products)")
	filterCmd.MarkFlagRequired("conditions")
}

func runFilter(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--db-url or filter.database_url required")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	reg := registry.Default()
	store, err := catalog.NewSQL(queries, reg)
	if err != nil {
		return err
	}

	opts := []conditions.Option{conditions.WithLogger(log)}
	// A zero TTL disables result caching; the engine runs always-compute.
	if cfg.CacheTTL > 0 {
		resultCache := cache.NewMemory(cfg.CacheGCInterval)
		defer resultCache.StopGC()
		opts = append(opts, conditions.WithCache(resultCache, cfg.CacheTTL))
	}

	engine, err := conditions.New(reg, store, opts...)
	if err != nil {
		return err
	}

	request, err := readRequest(conditionsFile)
	if err != nil {
		return err
	}

	candidates, err := resolveCandidates(ctx, store)
	if err != nil {
		return err
	}

	matched := engine.Apply(ctx, candidates, request.Conditions, request.Logic)

	for _, id := range matched {
		fmt.Println(int64(id))
	}
	log.Info("filter complete",
		"candidates", len(candidates), "matched", len(matched), "logic", request.Logic)
	return nil
}

// readRequest loads and parses the conditions file.
func readRequest(path string) (*filterRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read conditions file: %w", err)
	}
	var request filterRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("failed to parse conditions file: %w", err)
	}
	return &request, nil
}

// resolveCandidates parses --candidates, or lists the whole catalog when
// the flag is absent. Unparseable ids are skipped, matching the engine's
// leniency.
func resolveCandidates(ctx context.Context, store *catalog.SQL) ([]types.ProductID, error) {
	if candidatesFlag == "" {
		return store.ProductIDs(ctx)
	}

	var ids []types.ProductID
	for _, field := range strings.Split(candidatesFlag, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, types.ProductID(id))
	}
	return ids, nil
}
