package transform

import (
	"fmt"
	"strings"
)

// priceBucket is one band of the price_distribution view. Max is exclusive;
// a zero Max means the band is open-ended.
type priceBucket struct {
	Label string
	Min   int64
	Max   int64
}

// priceBuckets is the single source for the price bands: BucketFor and the
// generated CASE expression must always agree.
var priceBuckets = []priceBucket{
	{Label: "Under 500K", Min: 0, Max: 500_000},
	{Label: "500K - 1M", Min: 500_000, Max: 1_000_000},
	{Label: "1M - 2M", Min: 1_000_000, Max: 2_000_000},
	{Label: "2M - 5M", Min: 2_000_000, Max: 5_000_000},
	{Label: "5M+", Min: 5_000_000, Max: 0},
}

// BucketFor returns the band label for a price. Prices below zero fall into
// the first band.
func BucketFor(price int64) string {
	for _, b := range priceBuckets {
		if b.Max == 0 || price < b.Max {
			return b.Label
		}
	}
	return priceBuckets[len(priceBuckets)-1].Label
}

// bucketCaseExpression renders the bands as a SQL CASE over the given column.
func bucketCaseExpression(column string) string {
	var sb strings.Builder
	sb.WriteString("CASE\n")
	for _, b := range priceBuckets {
		if b.Max == 0 {
			fmt.Fprintf(&sb, "        ELSE '%s'\n", b.Label)
			continue
		}
		fmt.Fprintf(&sb, "        WHEN %s < %d THEN '%s'\n", column, b.Max, b.Label)
	}
	sb.WriteString("    END")
	return sb.String()
}
