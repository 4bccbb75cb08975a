package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/leadhive/superapp/api/internal/cache"
	"github.com/leadhive/superapp/api/internal/entity"
	"github.com/leadhive/superapp/api/internal/service"
)

func newTestHistoryService(t *testing.T) *service.HistoryService {
	t.Helper()
	log, err := cache.NewSQLiteLog(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return service.NewHistoryService(log)
}

func newSearchHandler(t *testing.T, leadsRepo *stubLeadsRepo, searcher *stubSearcher) *SearchHandler {
	t.Helper()
	history := newTestHistoryService(t)
	leads := service.NewLeadsService(leadsRepo, &stubSearchesRepo{}, searcher, history, nil)
	return NewSearchHandler(leads, service.NewPromptService("Israel"), history)
}

func TestSearchHandler_Search(t *testing.T) {
	searcher := &stubSearcher{
		search: func(ctx context.Context, query, location string, maxResults int) ([]any, error) {
			return []any{
				map[string]any{"place_id": "p1", "title": "Cafe Aroma", "phone": "03-1234567"},
				map[string]any{"place_id": "p1", "title": "Cafe Aroma", "phone": "03-1234567"},
			}, nil
		},
	}
	handler := newSearchHandler(t, &stubLeadsRepo{}, searcher)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"cafe tel aviv"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Status string               `json:"status"`
		Data   service.IngestResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Data.Leads) != 1 {
		t.Fatalf("expected 1 deduplicated lead, got %d", len(payload.Data.Leads))
	}
	if !payload.Data.Saved {
		t.Fatal("expected saved batch")
	}
}

func TestSearchHandler_Search_MissingQuery(t *testing.T) {
	handler := newSearchHandler(t, &stubLeadsRepo{}, &stubSearcher{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Search(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchHandler_Search_ProviderFailure(t *testing.T) {
	searcher := &stubSearcher{
		search: func(ctx context.Context, query, location string, maxResults int) ([]any, error) {
			return nil, errors.New("provider unavailable")
		},
	}
	handler := newSearchHandler(t, &stubLeadsRepo{}, searcher)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"cafe"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Search(c)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestSearchHandler_Prompt(t *testing.T) {
	var gotQuery, gotLocation string
	searcher := &stubSearcher{
		search: func(ctx context.Context, query, location string, maxResults int) ([]any, error) {
			gotQuery = query
			gotLocation = location
			return []any{map[string]any{"title": "Pipe Masters"}}, nil
		},
	}
	handler := newSearchHandler(t, &stubLeadsRepo{}, searcher)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search/prompt", strings.NewReader(`{"prompt":"find me plumbers in Haifa"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Prompt(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotQuery != "plumbers" || gotLocation != "Haifa" {
		t.Fatalf("unexpected parsed search: %q in %q", gotQuery, gotLocation)
	}
}

func TestSearchHandler_HistoryRoundTrip(t *testing.T) {
	searcher := &stubSearcher{
		search: func(ctx context.Context, query, location string, maxResults int) ([]any, error) {
			return []any{map[string]any{"title": "Cafe Aroma"}}, nil
		},
	}
	handler := newSearchHandler(t, &stubLeadsRepo{}, searcher)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"cafe tel aviv"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler.Search(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/search/history", nil)
	rec = httptest.NewRecorder()
	if err := handler.History(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0] != "cafe tel aviv" {
		t.Fatalf("unexpected history: %v", payload.Data)
	}
}

func TestSearchHandler_Restore(t *testing.T) {
	var inserted []entity.Lead
	leadsRepo := &stubLeadsRepo{
		bulkInsert: func(ctx context.Context, leads []entity.Lead) (int, error) {
			inserted = append(inserted, leads...)
			return len(leads), nil
		},
	}
	searcher := &stubSearcher{
		search: func(ctx context.Context, query, location string, maxResults int) ([]any, error) {
			return []any{map[string]any{"place_id": "p1", "title": "Cafe Aroma"}}, nil
		},
	}
	handler := newSearchHandler(t, leadsRepo, searcher)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"cafe"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler.Search(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inserted = nil
	req = httptest.NewRequest(http.MethodPost, "/search/restore", nil)
	rec = httptest.NewRecorder()
	if err := handler.Restore(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(inserted) != 1 {
		t.Fatalf("expected restored lead persisted, got %d", len(inserted))
	}
}

func TestSearchHandler_Searches(t *testing.T) {
	handler := newSearchHandler(t, &stubLeadsRepo{}, &stubSearcher{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/searches?limit=5", nil)
	rec := httptest.NewRecorder()
	if err := handler.Searches(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
