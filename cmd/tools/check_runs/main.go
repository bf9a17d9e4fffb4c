package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/david/realty-pipeline/internal/config"
	"github.com/david/realty-pipeline/internal/db"
	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	runs, err := db.NewStore(pool).RecentRuns(ctx, 10)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Status", "Areas", "Failed", "Fetched", "Upserted", "Duration", "Started At"})

	for _, r := range runs {
		duration := "Running..."
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		t.AppendRow(table.Row{r.Status, r.AreasTotal, r.AreasFailed, r.TotalFetched, r.TotalUpserted, duration, r.StartedAt.Format("2006-01-02 15:04:05")})
	}
	t.Render()
}
