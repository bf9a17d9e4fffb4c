package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const searchBody = `{
	"data": {
		"home_search": {
			"total": 482,
			"results": [
				{"property_id": "p1", "list_price": 500000},
				{"property_id": "p2", "list_price": 750000}
			]
		}
	}
}`

func TestSearchClient_RequestShape(t *testing.T) {
	var gotReq searchRequest
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	client := NewSearchClient(srv.URL, "realty-in-us.p.rapidapi.com", "test-key", 5*time.Second)
	results, total, err := client.Search(context.Background(), "90004", SearchOptions{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotReq.PostalCode != "90004" || gotReq.Offset != 0 || gotReq.Limit != 15 {
		t.Errorf("request body: %+v", gotReq)
	}
	if len(gotReq.Status) != 1 || gotReq.Status[0] != "for_sale" {
		t.Errorf("default status: %v", gotReq.Status)
	}
	if gotReq.Sort.Direction != "desc" || gotReq.Sort.Field != "list_date" {
		t.Errorf("sort: %+v", gotReq.Sort)
	}
	if gotHeaders.Get("x-rapidapi-key") != "test-key" || gotHeaders.Get("x-rapidapi-host") != "realty-in-us.p.rapidapi.com" {
		t.Errorf("credential headers missing: %v", gotHeaders)
	}

	if total != 482 {
		t.Errorf("total: got %d", total)
	}
	if len(results) != 2 || *results[0].PropertyID != "p1" {
		t.Errorf("results: %+v", results)
	}
}

func TestSearchClient_Overrides(t *testing.T) {
	var gotReq searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"data": {"home_search": {"total": 0, "results": []}}}`))
	}))
	defer srv.Close()

	client := NewSearchClient(srv.URL, "h", "k", 5*time.Second)
	_, _, err := client.Search(context.Background(), "90012", SearchOptions{Status: []string{"sold"}, Limit: 50})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotReq.Limit != 50 || len(gotReq.Status) != 1 || gotReq.Status[0] != "sold" {
		t.Errorf("overrides not applied: %+v", gotReq)
	}
}

func TestSearchClient_MissingSearchPathIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	client := NewSearchClient(srv.URL, "h", "k", 5*time.Second)
	results, total, err := client.Search(context.Background(), "90004", SearchOptions{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 || total != 0 {
		t.Errorf("expected empty result, got %d/%d", len(results), total)
	}
}

func TestSearchClient_HTTPErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewSearchClient(srv.URL, "h", "k", 5*time.Second)
	_, _, err := client.Search(context.Background(), "90028", SearchOptions{})

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.PostalCode != "90028" {
		t.Errorf("postal code: got %q", fetchErr.PostalCode)
	}
}

func TestSearchClient_TransportErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewSearchClient(srv.URL, "h", "k", time.Second)
	_, _, err := client.Search(context.Background(), "90015", SearchOptions{})

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.Unwrap() == nil {
		t.Error("fetch error must carry its cause")
	}
}
