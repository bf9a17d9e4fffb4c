package scrape

import "github.com/david/realty-pipeline/internal/models"

// DedupeByPropertyID collapses a batch to one listing per property_id,
// keeping the first occurrence and its position. Listings without a
// property_id are dropped: they have no conflict key to upsert on.
func DedupeByPropertyID(listings []models.Listing) []models.Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.PropertyID == "" {
			continue
		}
		if _, ok := seen[l.PropertyID]; ok {
			continue
		}
		seen[l.PropertyID] = struct{}{}
		out = append(out, l)
	}
	return out
}
