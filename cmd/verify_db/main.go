package main

import (
	"context"
	"fmt"
	"log"

	"github.com/david/realty-pipeline/internal/config"
	"github.com/david/realty-pipeline/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	var total, withPrice, withSqft, withPPSF int
	err = pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(price),
			count(sqft),
			count(price_per_sqft)
		FROM listings
	`).Scan(&total, &withPrice, &withSqft, &withPPSF)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	fmt.Printf("Total listings: %d\n", total)
	fmt.Printf("With price: %d\n", withPrice)
	fmt.Printf("With sqft: %d\n", withSqft)
	fmt.Printf("With price_per_sqft: %d\n", withPPSF)

	counts, err := db.NewStore(pool).CountByZip(ctx)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	fmt.Println("\nBy zip:")
	for _, zc := range counts {
		fmt.Printf("  %s: %d\n", zc.Zip, zc.Count)
	}
}
