package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cyber-morocco/Skillsy/internal/config"
	"github.com/Cyber-morocco/Skillsy/internal/db"
)

var tracesLimit int

var tracesCmd = &cobra.Command{
	Use:   "traces",
	Short: "Print the most recent stored resolution traces as JSON lines",
	Args:  cobra.NoArgs,
	RunE:  runTraces,
}

func init() {
	tracesCmd.Flags().IntVarP(&tracesLimit, "limit", "n", 20, "Number of traces to print")
	rootCmd.AddCommand(tracesCmd)
}

func runTraces(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to read traces")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	traces, err := database.ListTraces(ctx, tracesLimit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for i := range traces {
		if err := enc.Encode(&traces[i]); err != nil {
			return err
		}
	}
	return nil
}
