package scrape

import (
	"context"

	"github.com/david/realty-pipeline/internal/models"
	"github.com/google/uuid"
)

// RawListing mirrors one result from the upstream search API. Every leaf is a
// pointer and every container is a pointer struct: the API guarantees nothing,
// so absent subtrees must decode to nil instead of zero values.
type RawListing struct {
	PropertyID         *string         `json:"property_id"`
	ListingID          *string         `json:"listing_id"`
	Status             *string         `json:"status"`
	ListPrice          *float64        `json:"list_price"`
	ListDate           *string         `json:"list_date"`
	PriceReducedAmount *float64        `json:"price_reduced_amount"`
	LastSoldPrice      *float64        `json:"last_sold_price"`
	LastSoldDate       *string         `json:"last_sold_date"`
	PhotoCount         *int            `json:"photo_count"`
	HRef               *string         `json:"href"`
	PrimaryPhoto       *RawPhoto       `json:"primary_photo"`
	Location           *RawLocation    `json:"location"`
	Description        *RawDescription `json:"description"`
	Flags              *RawFlags       `json:"flags"`
}

type RawPhoto struct {
	Href *string `json:"href"`
}

type RawLocation struct {
	Address *RawAddress `json:"address"`
}

type RawAddress struct {
	Line       *string        `json:"line"`
	City       *string        `json:"city"`
	StateCode  *string        `json:"state_code"`
	PostalCode *string        `json:"postal_code"`
	Coordinate *RawCoordinate `json:"coordinate"`
}

type RawCoordinate struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type RawDescription struct {
	Type    *string  `json:"type"`
	SubType *string  `json:"sub_type"`
	Beds    *int     `json:"beds"`
	Baths   *float64 `json:"baths"`
	Sqft    *int     `json:"sqft"`
	LotSqft *int     `json:"lot_sqft"`
}

type RawFlags struct {
	IsNewListing   *bool `json:"is_new_listing"`
	IsForeclosure  *bool `json:"is_foreclosure"`
	IsPriceReduced *bool `json:"is_price_reduced"`
}

// SearchOptions narrows one search request. Zero values fall back to the
// pipeline defaults (status ["for_sale"], configured limit).
type SearchOptions struct {
	Status []string
	Limit  int
}

// Searcher issues one page-0 search for a postal code and returns the raw
// results plus the API-reported total match count.
type Searcher interface {
	Search(ctx context.Context, postalCode string, opts SearchOptions) ([]RawListing, int, error)
}

// ListingWriter persists one deduped batch of listings.
type ListingWriter interface {
	UpsertListings(ctx context.Context, listings []models.Listing) (int64, error)
}

// RunRecorder keeps pipeline_runs bookkeeping. Recording is best-effort: a
// recorder failure never fails the run.
type RunRecorder interface {
	StartRun(ctx context.Context, areasTotal int) (uuid.UUID, error)
	FinishRun(ctx context.Context, runID uuid.UUID, areasFailed, totalFetched int, totalUpserted int64) error
}
