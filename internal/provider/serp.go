// Package provider talks to the hosted maps-search proxy. Result objects
// are passed through loosely typed; the normalization pipeline owns the
// mapping onto the canonical lead shape.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

const pageSize = 20

// Searcher fetches raw search results for a query and location.
type Searcher interface {
	Search(ctx context.Context, query, location string, maxResults int) ([]any, error)
}

// SerpClient posts search requests to the search proxy and pages through
// local_results until maxResults is reached or the provider runs dry.
type SerpClient struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewSerpClient builds a provider client. token authenticates against the
// edge proxy; when it is empty and client is nil, an ID-token client is
// created for service-to-service deployments, falling back to a plain
// HTTP client outside such environments.
func NewSerpClient(client *http.Client, baseURL, token string) *SerpClient {
	if baseURL == "" {
		panic("provider baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if client == nil {
		if token == "" {
			idc, err := idtoken.NewClient(context.Background(), baseURL)
			if err == nil {
				client = idc
			}
		}
		if client == nil {
			client = &http.Client{Timeout: 15 * time.Second}
		}
	}
	return &SerpClient{client: client, baseURL: baseURL, token: token}
}

type searchRequest struct {
	Query      string `json:"query"`
	Location   string `json:"location"`
	Start      int    `json:"start"`
	MaxResults int    `json:"maxResults"`
}

type searchResponse struct {
	LocalResults []any  `json:"local_results"`
	Error        string `json:"error"`
}

// Search pages through the provider until maxResults results are
// collected. A short page returned by the provider ends the run early.
func (c *SerpClient) Search(ctx context.Context, query, location string, maxResults int) ([]any, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if maxResults <= 0 {
		maxResults = pageSize
	}

	var results []any
	for start := 0; len(results) < maxResults; start += pageSize {
		page, err := c.searchPage(ctx, query, location, start)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		results = append(results, page...)
		if len(page) < pageSize {
			break
		}
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

func (c *SerpClient) searchPage(ctx context.Context, query, location string, start int) ([]any, error) {
	body, err := json.Marshal(searchRequest{
		Query:      query,
		Location:   location,
		Start:      start,
		MaxResults: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("search provider error: %s", extractProviderError(resp.Body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("search provider error: %s", payload.Error)
	}
	return payload.LocalResults, nil
}

func extractProviderError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "provider returned an error"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(data)
}

var _ Searcher = (*SerpClient)(nil)
