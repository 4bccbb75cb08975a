package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadhive/superapp/api/internal/dto"
	"github.com/leadhive/superapp/api/internal/entity"
	"github.com/leadhive/superapp/api/internal/provider"
	"github.com/leadhive/superapp/api/internal/repository"
	"github.com/leadhive/superapp/api/internal/service/pipeline"
	"github.com/leadhive/superapp/api/internal/service/scoring"
)

// ErrQueryRequired is returned when a search is requested without a term.
var ErrQueryRequired = errors.New("search query is required")

// IngestResult summarizes one completed search ingestion.
type IngestResult struct {
	Search entity.Search `json:"search"`
	Leads  []entity.Lead `json:"leads"`
	// Fetched is the raw result count before deduplication.
	Fetched int `json:"fetched"`
	// Saved is false when persistence failed and the batch is only
	// returned in-memory.
	Saved bool `json:"saved"`
}

// LeadsService runs the search-to-leads pipeline and exposes lead CRUD.
type LeadsService struct {
	leads    repository.LeadsRepository
	searches repository.SearchesRepository
	searcher provider.Searcher
	history  *HistoryService
	logger   *zap.Logger

	// CrossBatchDedup also drops incoming leads that match already
	// persisted ones, not just duplicates within the batch.
	CrossBatchDedup bool
	// Sanitizer, when set, cleans contact fields on imported leads.
	Sanitizer *LeadSanitizer
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(
	leads repository.LeadsRepository,
	searches repository.SearchesRepository,
	searcher provider.Searcher,
	history *HistoryService,
	logger *zap.Logger,
) *LeadsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadsService{
		leads:    leads,
		searches: searches,
		searcher: searcher,
		history:  history,
		logger:   logger,
	}
}

// Ingest runs one search end to end: fetch, normalize, dedupe, persist,
// and record the search in the audit log, history and backups. When
// persistence fails the deduplicated batch is still returned with
// Saved=false so the caller keeps the results.
func (s *LeadsService) Ingest(ctx context.Context, query, location string, maxResults int) (IngestResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return IngestResult{}, ErrQueryRequired
	}

	items, err := s.searcher.Search(ctx, query, location, maxResults)
	if err != nil {
		return IngestResult{}, fmt.Errorf("search provider: %w", err)
	}

	batch := pipeline.Normalize(items, "serp")

	if s.CrossBatchDedup {
		existing, listErr := s.leads.ListAll(ctx)
		if listErr != nil {
			s.logger.Warn("listing existing leads failed, deduplicating within batch only",
				zap.Error(listErr))
			batch = pipeline.Dedupe(batch)
		} else {
			batch = pipeline.DedupeAgainst(batch, existing)
		}
	} else {
		batch = pipeline.Dedupe(batch)
	}

	search := entity.Search{
		ID:           uuid.New(),
		Term:         query,
		Location:     location,
		Source:       "serp",
		TotalResults: len(batch),
		ExecutedAt:   time.Now().UTC(),
	}
	for i := range batch {
		id := search.ID
		batch[i].SearchID = &id
	}

	result := IngestResult{
		Search:  search,
		Leads:   batch,
		Fetched: len(items),
	}

	if _, err := s.leads.BulkInsert(ctx, batch); err != nil {
		s.logger.Error("persisting search batch failed, returning results unsaved",
			zap.String("query", query), zap.Int("leads", len(batch)), zap.Error(err))
		return result, nil
	}
	result.Saved = true

	if err := s.searches.Insert(ctx, &search); err != nil {
		s.logger.Warn("recording search failed", zap.Error(err))
	} else {
		ids := make([]uuid.UUID, len(batch))
		for i, lead := range batch {
			ids[i] = lead.ID
		}
		if err := s.searches.InsertResults(ctx, search.ID, ids); err != nil {
			s.logger.Warn("recording search results failed", zap.Error(err))
		}
	}

	if s.history != nil {
		if err := s.history.RecordSearch(ctx, query); err != nil {
			s.logger.Warn("recording search history failed", zap.Error(err))
		}
		if err := s.history.SaveBackup(ctx, query, batch); err != nil {
			s.logger.Warn("saving backup snapshot failed", zap.Error(err))
		}
	}

	return result, nil
}

// ListLeads returns leads respecting pagination defaults.
func (s *LeadsService) ListLeads(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	filter.Normalize()
	return s.leads.List(ctx, filter)
}

// CreateLead adds a single manually-entered lead.
func (s *LeadsService) CreateLead(ctx context.Context, req dto.CreateLeadRequest) (*entity.Lead, error) {
	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return nil, errors.New("business name is required")
	}

	now := time.Now().UTC()
	lead := entity.Lead{
		ID:           uuid.New(),
		BusinessName: name,
		Phone:        strings.TrimSpace(req.Phone),
		Email:        strings.TrimSpace(req.Email),
		Address:      strings.TrimSpace(req.Address),
		Website:      strings.TrimSpace(req.Website),
		Category:     strings.TrimSpace(req.Category),
		Status:       entity.StatusNew,
		Notes:        req.Notes,
		Source:       "manual",
		Raw:          []byte("{}"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.leads.BulkInsert(ctx, []entity.Lead{lead}); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return &lead, nil
}

// UpdateLead patches workflow fields on an existing lead.
func (s *LeadsService) UpdateLead(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*entity.Lead, error) {
	if req.Status != nil && !validStatus(*req.Status) {
		return nil, fmt.Errorf("invalid status %q", *req.Status)
	}
	return s.leads.Update(ctx, id, req)
}

// DeleteLead removes a single lead.
func (s *LeadsService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	return s.leads.Delete(ctx, id)
}

// ImportLeads merges externally produced leads (spreadsheet import,
// backup restore) into persisted state through the deduplicator.
func (s *LeadsService) ImportLeads(ctx context.Context, incoming []entity.Lead) (int, error) {
	if len(incoming) == 0 {
		return 0, nil
	}

	if s.Sanitizer != nil {
		incoming = s.Sanitizer.SanitizeAll(ctx, incoming)
	}

	existing, err := s.leads.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list existing leads: %w", err)
	}

	merged := pipeline.DedupeAgainst(pipeline.Dedupe(incoming), existing)
	if len(merged) == 0 {
		return 0, nil
	}

	inserted, err := s.leads.BulkInsert(ctx, merged)
	if err != nil {
		return 0, fmt.Errorf("insert imported leads: %w", err)
	}
	return inserted, nil
}

// AllLeads returns the complete set, used by export and cleanup.
func (s *LeadsService) AllLeads(ctx context.Context) ([]entity.Lead, error) {
	return s.leads.ListAll(ctx)
}

// ScoreLead rates a single lead's outreach quality.
func (s *LeadsService) ScoreLead(ctx context.Context, id uuid.UUID) (scoring.ScoreResult, error) {
	leads, err := s.leads.GetByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return scoring.ScoreResult{}, fmt.Errorf("load lead: %w", err)
	}
	if len(leads) == 0 {
		return scoring.ScoreResult{}, repository.ErrLeadNotFound
	}
	return scoring.ScoreLead(leads[0]), nil
}

// Searches lists the recorded search audit log.
func (s *LeadsService) Searches(ctx context.Context, limit int) ([]entity.Search, error) {
	return s.searches.List(ctx, limit)
}

func validStatus(status string) bool {
	switch status {
	case entity.StatusNew, entity.StatusInProgress, entity.StatusClosed:
		return true
	}
	return false
}
