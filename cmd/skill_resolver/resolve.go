package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Cyber-morocco/Skillsy/internal/config"
	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

var (
	resolveLocale   string
	resolveVerbose  bool
	resolveNoEnrich bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <text>",
	Short: "Resolve free text once and print the outcome",
	Long: `Runs the full resolution pipeline for a single input and prints the outcome as JSON.
With --verbose every stage (enrichment, candidates, category similarities) is printed to stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveLocale, "locale", "l", types.DefaultLocale, "Locale of the input text")
	resolveCmd.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "Print the stage trace")
	resolveCmd.Flags().BoolVar(&resolveNoEnrich, "no-enrich", false, "Skip web enrichment")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	req := types.ResolutionRequest{Text: strings.Join(args, " "), Locale: resolveLocale}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	if resolveNoEnrich {
		cfg.DisableEnrichment = true
	}

	var observer observability.Observer = observability.Nop
	if resolveVerbose {
		observer = observability.NewPrinter(cmd.ErrOrStderr())
	}

	ctx := context.Background()
	a, err := buildApp(ctx, cfg, observer, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx = observability.WithRequestID(ctx, uuid.NewString())
	outcome, err := a.engine.Resolve(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", req.Text, err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
