// Package main provides the entry point for the Skillsy skill resolution service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skill_resolver",
	Short: "Skillsy skill resolution service",
	Long: "skill_resolver maps free-text skills onto the Skillsy catalog: a confident match, " +
		"ranked suggestions to confirm, or a proposed new skill under a root category.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (environment variables take precedence)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
