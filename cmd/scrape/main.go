package main

import (
	"context"
	"log"
	"os"

	"github.com/david/realty-pipeline/internal/config"
	"github.com/david/realty-pipeline/internal/db"
	"github.com/david/realty-pipeline/internal/scrape"
	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
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

	targets, err := scrape.LoadTargets(os.Getenv("TARGETS_FILE"))
	if err != nil {
		log.Fatalf("Failed to load targets: %v", err)
	}

	client := scrape.NewSearchClient(cfg.SearchURL(), cfg.RapidAPIHost, cfg.RapidAPIKey, cfg.FetchTimeout)
	store := db.NewStore(pool)
	pipeline := scrape.NewPipeline(client, store, store, cfg.FetchLimit)

	log.Printf("Starting scrape of %d areas...", len(targets))
	summary := pipeline.Run(ctx, targets)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Zip", "Fetched", "Upserted", "Error"})
	for _, area := range summary.Areas {
		errMsg := ""
		if area.Err != nil {
			errMsg = area.Err.Error()
		}
		t.AppendRow(table.Row{area.PostalCode, area.Fetched, area.Upserted, errMsg})
	}
	t.AppendFooter(table.Row{"Total", summary.TotalFetched, summary.TotalUpserted, ""})
	t.Render()

	if failed := summary.Failed(); failed > 0 {
		log.Printf("Done with errors: %d of %d areas failed", failed, len(summary.Areas))
		return
	}
	log.Printf("Done: %d listings upserted across %d areas", summary.TotalUpserted, len(summary.Areas))
}
