package scrape

import (
	"context"
	"log"

	"github.com/david/realty-pipeline/internal/models"
	"github.com/google/uuid"
)

// Pipeline drives fetch -> normalize -> dedupe -> upsert across a list of
// area targets, one at a time. Failures are isolated per target: a bad area
// is recorded and the run moves on.
type Pipeline struct {
	Client Searcher
	Writer ListingWriter
	Runs   RunRecorder // optional

	DefaultStatus []string
	DefaultLimit  int
}

func NewPipeline(client Searcher, writer ListingWriter, runs RunRecorder, defaultLimit int) *Pipeline {
	if defaultLimit <= 0 {
		defaultLimit = 15
	}
	return &Pipeline{
		Client:        client,
		Writer:        writer,
		Runs:          runs,
		DefaultStatus: []string{"for_sale"},
		DefaultLimit:  defaultLimit,
	}
}

// AreaResult reports one target's outcome. Err is non-nil when any stage
// failed for that area; Fetched counts post-dedup listings.
type AreaResult struct {
	PostalCode string
	Fetched    int
	Upserted   int64
	Err        error
}

// Summary accumulates the whole run.
type Summary struct {
	Areas         []AreaResult
	TotalFetched  int
	TotalUpserted int64
}

// Failed counts areas that ended in an error.
func (s Summary) Failed() int {
	n := 0
	for _, a := range s.Areas {
		if a.Err != nil {
			n++
		}
	}
	return n
}

// Run processes every target and returns the run summary. It never returns
// an error: a run that fails every area still completes with zero totals.
func (p *Pipeline) Run(ctx context.Context, targets []Target) Summary {
	var summary Summary

	var runID uuid.UUID
	if p.Runs != nil {
		id, err := p.Runs.StartRun(ctx, len(targets))
		if err != nil {
			log.Printf("[pipeline] failed to record run start: %v", err)
		} else {
			runID = id
		}
	}

	for _, target := range targets {
		res := p.processArea(ctx, target)
		summary.Areas = append(summary.Areas, res)
		if res.Err != nil {
			log.Printf("  x %s: %v", target.PostalCode, res.Err)
			continue
		}
		summary.TotalFetched += res.Fetched
		summary.TotalUpserted += res.Upserted
		log.Printf("  ok %s: %d fetched, %d upserted", target.PostalCode, res.Fetched, res.Upserted)
	}

	if p.Runs != nil && runID != uuid.Nil {
		if err := p.Runs.FinishRun(ctx, runID, summary.Failed(), summary.TotalFetched, summary.TotalUpserted); err != nil {
			log.Printf("[pipeline] failed to record run end: %v", err)
		}
	}

	return summary
}

func (p *Pipeline) processArea(ctx context.Context, target Target) AreaResult {
	res := AreaResult{PostalCode: target.PostalCode}

	opts := SearchOptions{Status: target.Status, Limit: target.Limit}
	if len(opts.Status) == 0 {
		opts.Status = p.DefaultStatus
	}
	if opts.Limit <= 0 {
		opts.Limit = p.DefaultLimit
	}

	raw, _, err := p.Client.Search(ctx, target.PostalCode, opts)
	if err != nil {
		res.Err = err
		return res
	}

	listings := make([]models.Listing, 0, len(raw))
	for _, r := range raw {
		listings = append(listings, Normalize(r))
	}
	listings = DedupeByPropertyID(listings)

	upserted, err := p.Writer.UpsertListings(ctx, listings)
	if err != nil {
		res.Err = err
		return res
	}

	res.Fetched = len(listings)
	res.Upserted = upserted
	return res
}
