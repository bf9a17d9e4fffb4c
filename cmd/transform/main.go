package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/david/realty-pipeline/internal/config"
	"github.com/david/realty-pipeline/internal/db"
	"github.com/david/realty-pipeline/internal/transform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Scheduled runs keep an on-disk trail alongside stderr.
	logFile, err := os.OpenFile(cfg.TransformLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", cfg.TransformLogPath, err)
	}
	defer logFile.Close()
	log.SetOutput(io.MultiWriter(os.Stderr, logFile))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	builder := transform.NewBuilder(pool)
	log.Println("Starting view rebuild...")
	if err := builder.Run(ctx); err != nil {
		log.Fatalf("View rebuild failed: %v", err)
	}
	log.Println("View rebuild complete")
}
