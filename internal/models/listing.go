package models

import "time"

// Listing is the flat record produced by the scrape stage, one per
// property_id. PropertyID is the natural key; every other field is optional
// because the upstream API guarantees nothing about any of them.
type Listing struct {
	PropertyID string  `json:"property_id"`
	ListingID  *string `json:"listing_id"`

	Status          *string `json:"status"`
	PropertyType    *string `json:"property_type"`
	PropertySubtype *string `json:"property_subtype"`

	Address *string  `json:"address"`
	City    *string  `json:"city"`
	State   *string  `json:"state"`
	Zip     *string  `json:"zip"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`

	Price *float64 `json:"price"`
	// PricePerSqft is computed by the transform stage, never by the scraper.
	PricePerSqft       *float64   `json:"price_per_sqft"`
	PriceReducedAmount *float64   `json:"price_reduced_amount"`
	LastSoldPrice      *float64   `json:"last_sold_price"`
	LastSoldDate       *time.Time `json:"last_sold_date"`

	Beds    *int     `json:"beds"`
	Baths   *float64 `json:"baths"`
	Sqft    *int     `json:"sqft"`
	LotSqft *int     `json:"lot_sqft"`

	ListDate   *time.Time `json:"list_date"`
	PhotoCount *int       `json:"photo_count"`
	PhotoURL   *string    `json:"photo_url"`
	DetailURL  *string    `json:"detail_url"`

	IsNewListing   *bool `json:"is_new_listing"`
	IsForeclosure  *bool `json:"is_foreclosure"`
	IsPriceReduced *bool `json:"is_price_reduced"`

	ScrapedAt time.Time `json:"scraped_at"`
}
