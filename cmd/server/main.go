package main

import (
	"context"
	"fmt"
	"log"

	"pharmacy-backoffice/internal/assistant"
	"pharmacy-backoffice/internal/auth"
	"pharmacy-backoffice/internal/cart"
	"pharmacy-backoffice/internal/config"
	"pharmacy-backoffice/internal/database"
	"pharmacy-backoffice/internal/handlers"
	"pharmacy-backoffice/internal/server"
	"pharmacy-backoffice/internal/store"
)

func main() {
	if err := run(config.LoadConfig()); err != nil {
		log.Fatal(err)
	}
}

// run returns instead of exiting so the Redis and Gemini clients get closed
// on every path.
func run(cfg config.Config) error {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	// every start begins from the sample data
	if err := database.Reset(db); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	log.Printf("Database ready (%s), sample data loaded", cfg.DB.Driver)

	stores := store.New(db)

	var catalog cart.Catalog = cart.DefaultCatalog()
	if cfg.Catalog == config.CatalogInventory {
		catalog = cart.InventoryCatalog{Medicines: stores.Medicines}
	}
	log.Printf("Sales catalog: %s", cfg.Catalog)

	var sessions auth.SessionStore = auth.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb, err := auth.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer rdb.Close()
		sessions = auth.NewRedisStore(rdb)
	}

	var asker handlers.Asker
	if cfg.GeminiKey != "" {
		agent, err := assistant.NewAgent(context.Background(), cfg.GeminiKey, cfg.GeminiName, assistant.NewTools(stores))
		if err != nil {
			return fmt.Errorf("failed to start assistant: %w", err)
		}
		defer agent.Close()
		asker = agent
	} else {
		log.Println("GEMINI_API_KEY not set, assistant disabled")
	}

	h := handlers.New(
		stores,
		auth.NewTokens(cfg.Auth.Secret, cfg.Auth.SessionTTL),
		sessions,
		cart.NewRegistry(catalog),
		asker,
	)

	r, err := server.New(h, server.Options{
		CORSOrigins: cfg.CORS,
		LoginRate:   cfg.LoginRate,
		WebDir:      cfg.WebDir,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	log.Println("Server starting on " + cfg.BaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}
