package main

import (
	"context"
	"flag"
	"log"

	"github.com/david/realty-pipeline/internal/config"
	"github.com/david/realty-pipeline/internal/db"
	"github.com/david/realty-pipeline/internal/scrape"
)

func main() {
	postalCode := flag.String("zip", "", "Postal code to scrape (e.g., 90028)")
	limit := flag.Int("limit", 0, "Max listings to fetch (0 = configured default)")
	flag.Parse()

	if *postalCode == "" {
		log.Fatal("Please provide a postal code using -zip flag")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if cfg.RapidAPIKey == "" {
		log.Fatal("RAPIDAPI_KEY is not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	client := scrape.NewSearchClient(cfg.SearchURL(), cfg.RapidAPIHost, cfg.RapidAPIKey, cfg.FetchTimeout)
	store := db.NewStore(pool)
	// No run record for one-off scrapes.
	pipeline := scrape.NewPipeline(client, store, nil, cfg.FetchLimit)

	log.Printf("Starting manual scrape for zip: %s", *postalCode)
	summary := pipeline.Run(ctx, []scrape.Target{{PostalCode: *postalCode, Limit: *limit}})

	area := summary.Areas[0]
	if area.Err != nil {
		log.Fatalf("Scrape failed for %s: %v", *postalCode, area.Err)
	}
	log.Printf("Scrape finished for %s. Fetched: %d, Upserted: %d", *postalCode, area.Fetched, area.Upserted)
}
