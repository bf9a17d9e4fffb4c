package db

import (
	"context"
	"fmt"
	"time"

	"github.com/david/realty-pipeline/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// insertCols is the full column list written on first insert. Order must
// match the argument list in upsertArgs.
const insertCols = `property_id, listing_id, status, address, city, state, zip,
	price, beds, baths, sqft, lot_sqft,
	property_type, property_subtype, list_date,
	lat, lon, photo_count,
	is_new_listing, is_foreclosure, is_price_reduced,
	price_reduced_amount, last_sold_price, last_sold_date,
	photo_url, detail_url`

func upsertSQL() string {
	return fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20, $21,
			$22, $23, $24,
			$25, $26)
		ON CONFLICT (property_id) DO UPDATE SET %s
	`, insertCols, conflictUpdateClause())
}

func upsertArgs(l models.Listing) []interface{} {
	return []interface{}{
		l.PropertyID, l.ListingID, l.Status, l.Address, l.City, l.State, l.Zip,
		l.Price, l.Beds, l.Baths, l.Sqft, l.LotSqft,
		l.PropertyType, l.PropertySubtype, l.ListDate,
		l.Lat, l.Lon, l.PhotoCount,
		l.IsNewListing, l.IsForeclosure, l.IsPriceReduced,
		l.PriceReducedAmount, l.LastSoldPrice, l.LastSoldDate,
		l.PhotoURL, l.DetailURL,
	}
}

// UpsertListings bulk-upserts one batch of listings keyed by property_id and
// returns the number of rows affected. The whole batch commits as a single
// transaction; any failure rolls the entire batch back. An empty batch does
// no I/O and reports zero.
func (s *Store) UpsertListings(ctx context.Context, listings []models.Listing) (int64, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := upsertSQL()
	batch := &pgx.Batch{}
	for _, l := range listings {
		batch.Queue(sql, upsertArgs(l)...)
	}

	results := tx.SendBatch(ctx, batch)
	var affected int64
	for range listings {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("upsert listing: %w", err)
		}
		affected += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close upsert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit upsert tx: %w", err)
	}

	return affected, nil
}

// StartRun opens a pipeline_runs bookkeeping row and returns its id.
func (s *Store) StartRun(ctx context.Context, areasTotal int) (uuid.UUID, error) {
	runID := uuid.New()
	_, err := s.pool.Exec(ctx,
		"INSERT INTO pipeline_runs (run_id, status, areas_total) VALUES ($1, 'running', $2)",
		runID, areasTotal)
	if err != nil {
		return uuid.Nil, fmt.Errorf("start run: %w", err)
	}
	return runID, nil
}

// FinishRun closes a bookkeeping row with the run's final totals.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, areasFailed, totalFetched int, totalUpserted int64) error {
	status := "completed"
	if areasFailed > 0 {
		status = "completed_with_errors"
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE pipeline_runs
		SET status = $1, areas_failed = $2, total_fetched = $3, total_upserted = $4, completed_at = NOW()
		WHERE run_id = $5
	`, status, areasFailed, totalFetched, totalUpserted, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RunRecord is one pipeline_runs row, for the CLI tools.
type RunRecord struct {
	RunID         uuid.UUID
	Status        string
	AreasTotal    int
	AreasFailed   int
	TotalFetched  int
	TotalUpserted int
	StartedAt     time.Time
	CompletedAt   *time.Time
}

// RecentRuns returns the latest pipeline runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, status, areas_total, areas_failed, total_fetched, total_upserted, started_at, completed_at
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Status, &r.AreasTotal, &r.AreasFailed, &r.TotalFetched, &r.TotalUpserted, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ZipCount is a per-postal-code row count, for the verify tool.
type ZipCount struct {
	Zip   string
	Count int
}

// CountByZip reports listing counts grouped by zip, largest first.
func (s *Store) CountByZip(ctx context.Context) ([]ZipCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT COALESCE(zip, ''), COUNT(*)
		FROM listings
		GROUP BY zip
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("count by zip: %w", err)
	}
	defer rows.Close()

	var counts []ZipCount
	for rows.Next() {
		var zc ZipCount
		if err := rows.Scan(&zc.Zip, &zc.Count); err != nil {
			return nil, fmt.Errorf("scan zip count: %w", err)
		}
		counts = append(counts, zc)
	}
	return counts, rows.Err()
}
