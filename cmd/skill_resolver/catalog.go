package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cyber-morocco/Skillsy/internal/catalog"
	"github.com/Cyber-morocco/Skillsy/internal/config"
	"github.com/Cyber-morocco/Skillsy/internal/db"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage catalog snapshots",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a JSON or YAML catalog snapshot",
	Long: `Checks a snapshot against schemas/catalog_snapshot.schema.json and the catalog rules:
at least one concept and root category, unique ids and the "overig" catch-all category.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogValidate,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the PostgreSQL catalog with a snapshot (the embedded seed by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogImport,
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %d concepts, %d root categories\n",
		cat.Len(), len(cat.RootCategories()))
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to import a catalog")
	}

	cat, err := catalog.Seed()
	if len(args) == 1 {
		cat, err = catalog.LoadFile(args[0])
	}
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	snapshot := catalog.Snapshot{
		Version:        cat.Version(),
		Concepts:       cat.Concepts(),
		RootCategories: cat.RootCategories(),
	}
	if err := database.ImportSnapshot(ctx, snapshot); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d concepts and %d root categories\n",
		len(snapshot.Concepts), len(snapshot.RootCategories))
	return nil
}
