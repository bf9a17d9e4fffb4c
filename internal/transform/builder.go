package transform

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Builder computes derived pricing data and rebuilds the analytical views on
// top of the listings table. The whole rebuild runs in one transaction so
// readers never observe a half-rebuilt set of views.
type Builder struct {
	Pool *pgxpool.Pool
}

func NewBuilder(pool *pgxpool.Pool) *Builder {
	return &Builder{Pool: pool}
}

type buildStep struct {
	name string
	sql  string
}

const addPricePerSqftSQL = `
ALTER TABLE listings ADD COLUMN IF NOT EXISTS price_per_sqft NUMERIC(10, 2)`

const fillPricePerSqftSQL = `
UPDATE listings
SET price_per_sqft = ROUND(price::numeric / NULLIF(sqft, 0), 2)
WHERE sqft IS NOT NULL AND sqft > 0`

const zipSummaryViewSQL = `
CREATE VIEW zip_summary AS
SELECT
    zip,
    city,
    COUNT(*) AS total_listings,
    ROUND(AVG(price)) AS avg_price,
    PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY price) AS median_price,
    MIN(price) AS min_price,
    MAX(price) AS max_price,
    ROUND(AVG(price_per_sqft), 2) AS avg_price_per_sqft,
    ROUND(AVG(sqft)) AS avg_sqft,
    ROUND(AVG(beds), 1) AS avg_beds,
    ROUND(AVG(baths), 1) AS avg_baths
FROM listings
WHERE price IS NOT NULL
GROUP BY zip, city
ORDER BY avg_price DESC`

const propertyTypeStatsViewSQL = `
CREATE VIEW property_type_stats AS
SELECT
    property_type,
    property_subtype,
    COUNT(*) AS count,
    ROUND(AVG(price)) AS avg_price,
    ROUND(AVG(sqft)) AS avg_sqft,
    ROUND(AVG(price_per_sqft), 2) AS avg_price_per_sqft
FROM listings
WHERE price IS NOT NULL
GROUP BY property_type, property_subtype
ORDER BY count DESC`

// steps returns the rebuild in execution order. The view bodies are static
// SQL except price_distribution, whose bands come from priceBuckets.
func (b *Builder) steps() []buildStep {
	priceDistributionSQL := fmt.Sprintf(`
CREATE VIEW price_distribution AS
SELECT
    %s AS price_range,
    COUNT(*) AS count,
    ROUND(AVG(sqft)) AS avg_sqft,
    ROUND(AVG(beds), 1) AS avg_beds
FROM listings
WHERE price IS NOT NULL
GROUP BY price_range
ORDER BY MIN(price)`, bucketCaseExpression("price"))

	return []buildStep{
		{name: "add price_per_sqft column", sql: addPricePerSqftSQL},
		{name: "compute price_per_sqft", sql: fillPricePerSqftSQL},
		{name: "drop zip_summary", sql: `DROP VIEW IF EXISTS zip_summary`},
		{name: "create zip_summary", sql: zipSummaryViewSQL},
		{name: "drop property_type_stats", sql: `DROP VIEW IF EXISTS property_type_stats`},
		{name: "create property_type_stats", sql: propertyTypeStatsViewSQL},
		{name: "drop price_distribution", sql: `DROP VIEW IF EXISTS price_distribution`},
		{name: "create price_distribution", sql: priceDistributionSQL},
	}
}

// Run executes the full rebuild. Any step failing rolls back the whole run.
func (b *Builder) Run(ctx context.Context) error {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transform transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, step := range b.steps() {
		log.Printf("[transform] %s", step.name)
		if err := b.execStep(ctx, tx, step); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transform transaction: %w", err)
	}
	return nil
}

func (b *Builder) execStep(ctx context.Context, tx pgx.Tx, step buildStep) error {
	tag, err := tx.Exec(ctx, step.sql)
	if err != nil {
		return fmt.Errorf("transform step %q failed: %w", step.name, err)
	}
	if tag.Update() {
		log.Printf("[transform]   %d rows updated", tag.RowsAffected())
	}
	return nil
}
