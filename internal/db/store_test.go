package db

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/david/realty-pipeline/internal/models"
)

func TestUpsertSQL_RefreshesOnlyLiveFields(t *testing.T) {
	sql := upsertSQL()

	if !strings.Contains(sql, "ON CONFLICT (property_id) DO UPDATE SET") {
		t.Fatalf("upsert must conflict on property_id: %s", sql)
	}

	mustUpdate := []string{
		"price = EXCLUDED.price",
		"status = EXCLUDED.status",
		"is_price_reduced = EXCLUDED.is_price_reduced",
		"price_reduced_amount = EXCLUDED.price_reduced_amount",
		"photo_count = EXCLUDED.photo_count",
		"scraped_at = NOW()",
	}
	for _, token := range mustUpdate {
		if !strings.Contains(sql, token) {
			t.Errorf("update clause missing %q", token)
		}
	}

	// Structural fields must never appear in the update clause.
	clause := sql[strings.Index(sql, "DO UPDATE SET"):]
	for _, frozen := range []string{"beds =", "baths =", "sqft =", "address =", "list_date =", "lat =", "lon ="} {
		if strings.Contains(clause, frozen) {
			t.Errorf("update clause must not touch %q: %s", frozen, clause)
		}
	}
}

func TestUpsertArgs_MatchesColumnCount(t *testing.T) {
	cols := strings.Count(insertCols, ",") + 1
	args := upsertArgs(models.Listing{PropertyID: "p1"})
	if len(args) != cols {
		t.Fatalf("insert has %d columns but %d args", cols, len(args))
	}
}

func TestMergeOnConflict(t *testing.T) {
	strptr := func(s string) *string { return &s }
	fptr := func(f float64) *float64 { return &f }
	iptr := func(i int) *int { return &i }
	bptr := func(b bool) *bool { return &b }

	firstSeen := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
	existing := models.Listing{
		PropertyID: "9269556571",
		Status:     strptr("for_sale"),
		Address:    strptr("211 S Berendo St Apt 3"),
		Price:      fptr(439999),
		Beds:       iptr(1),
		Sqft:       iptr(712),
		PhotoCount: iptr(39),
		ListDate:   &firstSeen,
		ScrapedAt:  firstSeen,
	}

	rescraped := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	incoming := models.Listing{
		PropertyID:         "9269556571",
		Status:             strptr("sold"),
		Address:            strptr("a different address that must be ignored"),
		Price:              fptr(415000),
		Beds:               iptr(2),
		PhotoCount:         iptr(41),
		IsPriceReduced:     bptr(true),
		PriceReducedAmount: fptr(24999),
		ScrapedAt:          rescraped,
	}

	merged := MergeOnConflict(existing, incoming)

	// Live fields track the incoming record.
	if *merged.Price != 415000 || *merged.Status != "sold" || *merged.PhotoCount != 41 {
		t.Errorf("live fields not refreshed: %+v", merged)
	}
	if merged.IsPriceReduced == nil || !*merged.IsPriceReduced {
		t.Error("is_price_reduced not refreshed")
	}
	if *merged.PriceReducedAmount != 24999 {
		t.Error("price_reduced_amount not refreshed")
	}
	if !merged.ScrapedAt.Equal(rescraped) {
		t.Error("scraped_at not refreshed")
	}

	// Structural fields keep first-inserted values.
	if *merged.Address != "211 S Berendo St Apt 3" {
		t.Errorf("address must stay at inserted value, got %q", *merged.Address)
	}
	if *merged.Beds != 1 || *merged.Sqft != 712 {
		t.Errorf("physical facts must stay at inserted values: %+v", merged)
	}
	if !merged.ListDate.Equal(firstSeen) {
		t.Error("list_date must stay at inserted value")
	}
}

// filledListing populates every field of a Listing from a seed so two
// listings built from different seeds differ in every field.
func filledListing(seed int) models.Listing {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, seed)
	var l models.Listing
	v := reflect.ValueOf(&l).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Ptr {
			continue
		}
		p := reflect.New(f.Type().Elem())
		switch p.Elem().Interface().(type) {
		case string:
			p.Elem().SetString(fmt.Sprintf("s%d-%d", seed, i))
		case float64:
			p.Elem().SetFloat(float64(seed*1000 + i))
		case int:
			p.Elem().SetInt(int64(seed*100 + i))
		case bool:
			p.Elem().SetBool(seed%2 == 0)
		case time.Time:
			p.Elem().Set(reflect.ValueOf(base.AddDate(0, 0, i)))
		}
		f.Set(p)
	}
	l.PropertyID = "p1"
	l.ScrapedAt = base
	return l
}

func TestMergeOnConflict_CoversExactlyLiveColumns(t *testing.T) {
	existing := filledListing(1)
	incoming := filledListing(2)
	incoming.PropertyID = existing.PropertyID

	merged := MergeOnConflict(existing, incoming)

	ev := reflect.ValueOf(existing)
	mv := reflect.ValueOf(merged)
	changed := 0
	for i := 0; i < ev.NumField(); i++ {
		if !reflect.DeepEqual(ev.Field(i).Interface(), mv.Field(i).Interface()) {
			changed++
		}
	}

	// The live columns plus scraped_at, nothing else.
	if want := len(liveColumns) + 1; changed != want {
		t.Errorf("merge changed %d fields, want %d (liveColumns + scraped_at)", changed, want)
	}
	if !merged.ScrapedAt.Equal(incoming.ScrapedAt) {
		t.Error("scraped_at must track the incoming record")
	}
}

func TestMergeOnConflict_Idempotent(t *testing.T) {
	price := 500000.0
	status := "for_sale"
	l := models.Listing{PropertyID: "x", Price: &price, Status: &status}

	once := MergeOnConflict(l, l)
	twice := MergeOnConflict(once, l)

	if *twice.Price != price || *twice.Status != status {
		t.Errorf("repeated merge of the same record changed it: %+v", twice)
	}
}
