package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/solatis/promofilter/internal/catalog"
	"github.com/solatis/promofilter/internal/core/db"
	"github.com/solatis/promofilter/internal/registry"
	"github.com/solatis/promofilter/internal/types"
	"github.com/spf13/cobra"
)

// seedProduct is one fixture entry: an id, a display name, and the
// attribute map written to the EAV table.
type seedProduct struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes"`
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a catalog fixture file into the database",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedFile, "file", "", "fixture JSON file (array of products)")
	seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	store, err := catalog.NewSQL(queries, registry.Default())
	if err != nil {
		return err
	}

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	var products []seedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}

	for _, p := range products {
		id := types.ProductID(p.ID)
		if err := store.UpsertProduct(ctx, id, p.Name); err != nil {
			return err
		}
		for property, value := range p.Attributes {
			if err := store.UpsertAttribute(ctx, id, property, value); err != nil {
				return err
			}
		}
	}

	fmt.Printf("seeded %d products\n", len(products))
	return nil
}
