package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dnsby/storefront/config"
	httpDelivery "github.com/dnsby/storefront/internal/delivery/http"
	"github.com/dnsby/storefront/internal/infrastructure/cache"
	"github.com/dnsby/storefront/internal/infrastructure/store"
	"github.com/dnsby/storefront/internal/usecase"
	"github.com/spf13/afero"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting DNS-BY Storefront v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Remote store: %s", cfg.Store.BaseURL)
	log.Printf("Cart cache dir: %s", cfg.Cache.Dir)

	// Initialize infrastructure dependencies
	cartCache := cache.NewFileCartCache(afero.NewOsFs(), cfg.Cache.Dir)

	storeClient := store.NewClient(cfg.Store.BaseURL, cfg.Store.Timeout, cfg.RateLimit.Store)
	if cfg.Server.Environment == "development" {
		storeClient.SetDebug(true)
		log.Printf("Store client debug mode enabled")
	}

	// Initialize usecase layer
	cartService := usecase.NewCartService(cartCache, storeClient)
	catalogService := usecase.NewCatalogService(storeClient, usecase.CatalogServiceConfig{
		PollInterval: cfg.Catalog.PollInterval,
		PollAttempts: cfg.Catalog.PollAttempts,
	})

	// Seed the cart from the local cache and reconcile with the remote
	// service in the background; the API never waits on the network.
	ctx := context.Background()
	cartService.Bootstrap(ctx)
	go func() {
		if err := catalogService.Refresh(ctx); err != nil {
			log.Printf("Initial catalog fetch failed: %v", err)
		}
	}()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(cartService, catalogService, storeClient)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
