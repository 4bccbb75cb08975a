package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/leadhive/superapp/api/internal/dto"
	"github.com/leadhive/superapp/api/internal/repository"
	"github.com/leadhive/superapp/api/internal/service/pipeline"
)

// ErrConfirmationRequired is returned when a destructive cleanup action
// is requested without the confirm flag.
var ErrConfirmationRequired = errors.New("confirmation required")

// CleanupReport is the phone-quality breakdown plus the effect of the
// action that produced it.
type CleanupReport struct {
	Buckets  pipeline.PhoneBuckets `json:"buckets"`
	Affected int                   `json:"affected"`
}

// CleanupService audits and repairs lead phone numbers in bulk.
type CleanupService struct {
	leads repository.LeadsRepository
}

// NewCleanupService creates a new instance of CleanupService.
func NewCleanupService(leads repository.LeadsRepository) *CleanupService {
	return &CleanupService{leads: leads}
}

// Analyze classifies every persisted lead's phone into valid, invalid,
// duplicate and empty buckets without changing anything.
func (s *CleanupService) Analyze(ctx context.Context) (CleanupReport, error) {
	leads, err := s.leads.ListAll(ctx)
	if err != nil {
		return CleanupReport{}, fmt.Errorf("list leads: %w", err)
	}
	return CleanupReport{Buckets: pipeline.AnalyzePhones(leads)}, nil
}

// FormatSelected rewrites the phones of the selected leads into the
// display format and returns a fresh analysis.
func (s *CleanupService) FormatSelected(ctx context.Context, req dto.CleanupSelectionRequest) (CleanupReport, error) {
	ids, err := parseIDs(req.IDs)
	if err != nil {
		return CleanupReport{}, err
	}

	selected, err := s.leads.GetByIDs(ctx, ids)
	if err != nil {
		return CleanupReport{}, fmt.Errorf("load selected leads: %w", err)
	}

	formatted := 0
	for _, lead := range selected {
		next := pipeline.FormatPhone(lead.Phone)
		if next == lead.Phone {
			continue
		}
		phone := next
		if _, err := s.leads.Update(ctx, lead.ID, dto.UpdateLeadRequest{Phone: &phone}); err != nil {
			return CleanupReport{}, fmt.Errorf("update lead %s: %w", lead.ID, err)
		}
		formatted++
	}

	report, err := s.Analyze(ctx)
	if err != nil {
		return CleanupReport{}, err
	}
	report.Affected = formatted
	return report, nil
}

// DeleteSelected removes the selected leads. The request must carry the
// confirm flag; without it nothing is deleted.
func (s *CleanupService) DeleteSelected(ctx context.Context, req dto.CleanupSelectionRequest) (CleanupReport, error) {
	if !req.Confirm {
		return CleanupReport{}, ErrConfirmationRequired
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		return CleanupReport{}, err
	}

	deleted, err := s.leads.DeleteMany(ctx, ids)
	if err != nil {
		return CleanupReport{}, fmt.Errorf("delete selected leads: %w", err)
	}

	report, err := s.Analyze(ctx)
	if err != nil {
		return CleanupReport{}, err
	}
	report.Affected = deleted
	return report, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, errors.New("no leads selected")
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid lead id %q", value)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
