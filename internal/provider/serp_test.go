package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSerpClient_SearchSinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer edge-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Query != "cafes" || req.Location != "Tel Aviv" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"local_results": []any{
				map[string]any{"title": "Cafe Aroma", "phone": "03-1234567"},
			},
		})
	}))
	defer server.Close()

	client := NewSerpClient(server.Client(), server.URL, "edge-token")
	results, err := client.Search(context.Background(), "cafes", "Tel Aviv", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	record, ok := results[0].(map[string]any)
	if !ok || record["title"] != "Cafe Aroma" {
		t.Fatalf("unexpected result: %+v", results[0])
	}
}

func TestSerpClient_SearchPaginates(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		var req searchRequest
		json.NewDecoder(r.Body).Decode(&req)

		page := make([]any, 0, pageSize)
		for i := 0; i < pageSize; i++ {
			page = append(page, map[string]any{"title": fmt.Sprintf("biz-%d", req.Start+i)})
		}
		json.NewEncoder(w).Encode(map[string]any{"local_results": page})
	}))
	defer server.Close()

	client := NewSerpClient(server.Client(), server.URL, "t")
	results, err := client.Search(context.Background(), "plumbers", "Israel", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 50 {
		t.Fatalf("expected results capped at 50, got %d", len(results))
	}
	if pages != 3 {
		t.Fatalf("expected 3 page requests, got %d", pages)
	}
}

func TestSerpClient_SearchStopsOnShortPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"local_results": []any{map[string]any{"title": "only one"}},
		})
	}))
	defer server.Close()

	client := NewSerpClient(server.Client(), server.URL, "t")
	results, err := client.Search(context.Background(), "rare niche", "Israel", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected early stop with 1 result, got %d", len(results))
	}
}

func TestSerpClient_SearchSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"error": "quota exhausted"})
	}))
	defer server.Close()

	client := NewSerpClient(server.Client(), server.URL, "t")
	if _, err := client.Search(context.Background(), "cafes", "Israel", 20); err == nil {
		t.Fatalf("expected error from provider")
	}
}

func TestSerpClient_RejectsEmptyQuery(t *testing.T) {
	client := NewSerpClient(&http.Client{}, "http://localhost:0", "t")
	if _, err := client.Search(context.Background(), "  ", "Israel", 20); err == nil {
		t.Fatalf("expected error for empty query")
	}
}
