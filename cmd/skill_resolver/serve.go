package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Cyber-morocco/Skillsy/internal/config"
	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes POST /resolve-skill, GET /health and a banner on GET /.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	ctx := context.Background()
	observer := observability.Multi(observability.NewLogObserver(log.Default()), observability.SpanObserver{})
	a, err := buildApp(ctx, cfg, observer, true)
	if err != nil {
		return err
	}
	defer func() {
		if a.provider != nil {
			_ = a.provider.Close()
		}
	}()

	srvCfg := server.Config{
		Port:    cfg.Port,
		Workers: cfg.Workers,
	}
	// The server closes the database on shutdown
	if a.database != nil {
		srvCfg.Store = a.database
	}

	srv, err := server.New(srvCfg, a.engine)
	if err != nil {
		if a.database != nil {
			a.database.Close()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
