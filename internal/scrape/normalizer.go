package scrape

import (
	"time"

	"github.com/david/realty-pipeline/internal/models"
)

// Normalize maps one raw API record to a flat Listing. It never fails: nil
// containers degrade to empty structs so every projection stays nil-safe, and
// unparseable dates become nil fields rather than errors.
func Normalize(raw RawListing) models.Listing {
	var addr RawAddress
	if raw.Location != nil && raw.Location.Address != nil {
		addr = *raw.Location.Address
	}
	var coord RawCoordinate
	if addr.Coordinate != nil {
		coord = *addr.Coordinate
	}
	var desc RawDescription
	if raw.Description != nil {
		desc = *raw.Description
	}
	var flags RawFlags
	if raw.Flags != nil {
		flags = *raw.Flags
	}

	l := models.Listing{
		ListingID:          raw.ListingID,
		Status:             raw.Status,
		Address:            addr.Line,
		City:               addr.City,
		State:              addr.StateCode,
		Zip:                addr.PostalCode,
		Lat:                coord.Lat,
		Lon:                coord.Lon,
		Price:              raw.ListPrice,
		PriceReducedAmount: raw.PriceReducedAmount,
		LastSoldPrice:      raw.LastSoldPrice,
		Beds:               desc.Beds,
		Baths:              desc.Baths,
		Sqft:               desc.Sqft,
		LotSqft:            desc.LotSqft,
		PropertyType:       desc.Type,
		PropertySubtype:    desc.SubType,
		PhotoCount:         raw.PhotoCount,
		DetailURL:          raw.HRef,
		IsNewListing:       flags.IsNewListing,
		IsForeclosure:      flags.IsForeclosure,
		IsPriceReduced:     flags.IsPriceReduced,
	}

	if raw.PropertyID != nil {
		l.PropertyID = *raw.PropertyID
	}
	if raw.PrimaryPhoto != nil {
		l.PhotoURL = raw.PrimaryPhoto.Href
	}
	if raw.ListDate != nil {
		if d, ok := parseDate(*raw.ListDate); ok {
			l.ListDate = &d
		}
	}
	if raw.LastSoldDate != nil {
		if d, ok := parseDate(*raw.LastSoldDate); ok {
			l.LastSoldDate = &d
		}
	}

	return l
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// parseDate reads an ISO-8601 timestamp or plain date and truncates it to the
// calendar date at UTC. Failure yields ok=false, never an error.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
