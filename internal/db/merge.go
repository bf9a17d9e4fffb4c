package db

import (
	"fmt"
	"strings"

	"github.com/david/realty-pipeline/internal/models"
)

// liveColumns are the only listing columns refreshed when an upsert hits an
// existing property_id. Structural facts (address, beds, sqft, list_date and
// the rest) keep their first-inserted values; these are the market-facing
// fields that move while a listing is active.
var liveColumns = []string{
	"price",
	"status",
	"is_price_reduced",
	"price_reduced_amount",
	"photo_count",
}

// MergeOnConflict applies the conflict policy to in-memory records: the
// result is the existing row with the incoming row's live fields and scrape
// timestamp. The upsert SET clause is generated from liveColumns; the
// assignments here must stay in sync with that list.
func MergeOnConflict(existing, incoming models.Listing) models.Listing {
	merged := existing
	merged.Price = incoming.Price
	merged.Status = incoming.Status
	merged.IsPriceReduced = incoming.IsPriceReduced
	merged.PriceReducedAmount = incoming.PriceReducedAmount
	merged.PhotoCount = incoming.PhotoCount
	merged.ScrapedAt = incoming.ScrapedAt
	return merged
}

func conflictUpdateClause() string {
	parts := make([]string, 0, len(liveColumns)+1)
	for _, col := range liveColumns {
		parts = append(parts, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	parts = append(parts, "scraped_at = NOW()")
	return strings.Join(parts, ", ")
}
