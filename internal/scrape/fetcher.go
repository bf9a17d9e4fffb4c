package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// FetchError marks a transport or HTTP failure for one postal code so the
// driver can isolate it to that area.
type FetchError struct {
	PostalCode string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.PostalCode, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SearchClient talks to the RapidAPI property search endpoint. One POST per
// postal code, page 0 only; no retries, no local state.
type SearchClient struct {
	Client  *http.Client
	BaseURL string
	Host    string
	APIKey  string
}

func NewSearchClient(baseURL, host, apiKey string, timeout time.Duration) *SearchClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SearchClient{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: baseURL,
		Host:    host,
		APIKey:  apiKey,
	}
}

type searchSort struct {
	Direction string `json:"direction"`
	Field     string `json:"field"`
}

type searchRequest struct {
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	PostalCode string     `json:"postal_code"`
	Status     []string   `json:"status"`
	Sort       searchSort `json:"sort"`
}

type searchResponse struct {
	Data struct {
		HomeSearch *struct {
			Results []RawListing `json:"results"`
			Total   int          `json:"total"`
		} `json:"home_search"`
	} `json:"data"`
}

// Search performs one page-0 search request. Any transport failure or
// non-2xx response surfaces as a *FetchError carrying the postal code.
func (c *SearchClient) Search(ctx context.Context, postalCode string, opts SearchOptions) ([]RawListing, int, error) {
	status := opts.Status
	if len(status) == 0 {
		status = []string{"for_sale"}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 15
	}

	body, err := json.Marshal(searchRequest{
		Limit:      limit,
		Offset:     0,
		PostalCode: postalCode,
		Status:     status,
		Sort:       searchSort{Direction: "desc", Field: "list_date"},
	})
	if err != nil {
		return nil, 0, &FetchError{PostalCode: postalCode, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &FetchError{PostalCode: postalCode, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-host", c.Host)
	req.Header.Set("x-rapidapi-key", c.APIKey)

	log.Printf("[search] Fetching %s (limit=%d)", postalCode, limit)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, &FetchError{PostalCode: postalCode, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, &FetchError{PostalCode: postalCode, Err: fmt.Errorf("API returned %d: %s", resp.StatusCode, snippet)}
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, 0, &FetchError{PostalCode: postalCode, Err: fmt.Errorf("decoding response: %w", err)}
	}

	hs := apiResp.Data.HomeSearch
	if hs == nil {
		return nil, 0, nil
	}

	log.Printf("[search] Got %d of %d total listings for %s", len(hs.Results), hs.Total, postalCode)
	return hs.Results, hs.Total, nil
}
