package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Cyber-morocco/Skillsy/internal/catalog"
	"github.com/Cyber-morocco/Skillsy/internal/config"
	"github.com/Cyber-morocco/Skillsy/internal/db"
	"github.com/Cyber-morocco/Skillsy/internal/embedding"
	"github.com/Cyber-morocco/Skillsy/internal/enrich"
	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/resolver"
)

// app holds everything a command needs to resolve text.
type app struct {
	cfg      config.Config
	engine   *resolver.Engine
	provider embedding.Provider
	database *db.DB
}

// Close releases the embedding provider and the database pool.
func (a *app) Close() {
	if a.provider != nil {
		_ = a.provider.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
}

// buildApp wires catalog, embeddings, enrichment and observers into an engine.
// Trace persistence is only attached when withTraces is set.
func buildApp(ctx context.Context, cfg config.Config, observer observability.Observer, withTraces bool) (*app, error) {
	a := &app{cfg: cfg}

	needsDB := cfg.CatalogSource == config.CatalogPostgres || cfg.EmbeddingCache || (withTraces && cfg.TraceStore)
	if cfg.DatabaseURL != "" && needsDB {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.database = database
		if err := database.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	cat, err := loadCatalog(ctx, cfg, a.database)
	if err != nil {
		a.Close()
		return nil, err
	}
	log.Printf("[catalog] loaded %d concepts and %d root categories (source=%s version=%s)",
		cat.Len(), len(cat.RootCategories()), cfg.CatalogSource, cat.Version())

	provider, err := embedding.NewFromConfig(ctx, cfg.EmbeddingConfig())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create embeddings provider: %w", err)
	}
	a.provider = provider
	cached := false
	if cfg.EmbeddingCache && a.database != nil {
		if err := a.database.EnsureEmbeddingCache(ctx); err != nil {
			log.Printf("[embeddings] warning: cache disabled: %v", err)
		} else {
			a.provider = embedding.NewCached(provider, a.database, log.Default())
			cached = true
		}
	}

	var enricher resolver.Enricher
	if !cfg.DisableEnrichment {
		enrichCfg := cfg.EnrichConfig()
		enrichCfg.Logger = log.Default()
		enricher = enrich.New(enrichCfg)
	}

	observers := []observability.Observer{observer}
	if withTraces && cfg.TraceStore && a.database != nil {
		observers = append(observers, db.NewTraceStore(a.database, log.Default()))
	}

	engine, err := resolver.NewEngine(ctx, resolver.Deps{
		Catalog:  cat,
		Embedder: a.provider,
		Enricher: enricher,
		Observer: observability.Multi(observers...),
	}, cfg.ResolverConfig())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build resolution engine: %w", err)
	}
	log.Printf("[resolve] engine ready (embeddings=%s cache=%t)", a.provider.ModelID(), cached)
	a.engine = engine

	return a, nil
}

// loadCatalog reads the catalog from the configured source.
func loadCatalog(ctx context.Context, cfg config.Config, database *db.DB) (*catalog.Catalog, error) {
	switch cfg.CatalogSource {
	case config.CatalogFile:
		return catalog.LoadFile(cfg.CatalogPath)
	case config.CatalogPostgres:
		if database == nil {
			return nil, fmt.Errorf("catalog source %q requires a database connection", cfg.CatalogSource)
		}
		snapshot, err := database.LoadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.New(snapshot)
	default:
		return catalog.Seed()
	}
}
