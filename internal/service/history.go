package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/leadhive/superapp/api/internal/cache"
	"github.com/leadhive/superapp/api/internal/entity"
)

const (
	historyKey      = "search_history"
	backupsKey      = "leads_backups"
	historyCapacity = 10
	backupCapacity  = 50
)

// BackupSnapshot is one dated snapshot of the leads produced by a search.
type BackupSnapshot struct {
	Timestamp  time.Time     `json:"timestamp"`
	SearchTerm string        `json:"search_term"`
	Leads      []entity.Lead `json:"leads"`
	Count      int           `json:"count"`
}

// HistoryService keeps the recent search terms and the rolling backup
// snapshots in the local cache. History holds at most 10 terms, backups
// at most 50 snapshots; the oldest entries fall off.
type HistoryService struct {
	log cache.Log
}

// NewHistoryService creates a new instance of HistoryService.
func NewHistoryService(log cache.Log) *HistoryService {
	return &HistoryService{log: log}
}

// RecordSearch puts term at the front of the history, removing any earlier
// occurrence of the same term.
func (s *HistoryService) RecordSearch(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	existing, err := s.SearchHistory(ctx)
	if err != nil {
		return err
	}

	values := make([][]byte, 0, len(existing)+1)
	values = append(values, []byte(term))
	for _, h := range existing {
		if h != term {
			values = append(values, []byte(h))
		}
	}

	if err := s.log.Rewrite(ctx, historyKey, values, historyCapacity); err != nil {
		return fmt.Errorf("rewrite search history: %w", err)
	}
	return nil
}

// SearchHistory returns the recent search terms, newest first.
func (s *HistoryService) SearchHistory(ctx context.Context) ([]string, error) {
	entries, err := s.log.Entries(ctx, historyKey)
	if err != nil {
		return nil, fmt.Errorf("read search history: %w", err)
	}

	terms := make([]string, 0, len(entries))
	for _, entry := range entries {
		terms = append(terms, string(entry.Value))
	}
	return terms, nil
}

// SaveBackup appends a dated snapshot of leads for the given search term.
func (s *HistoryService) SaveBackup(ctx context.Context, searchTerm string, leads []entity.Lead) error {
	snapshot := BackupSnapshot{
		Timestamp:  time.Now().UTC(),
		SearchTerm: searchTerm,
		Leads:      leads,
		Count:      len(leads),
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal backup snapshot: %w", err)
	}

	if err := s.log.Append(ctx, backupsKey, payload, backupCapacity); err != nil {
		return fmt.Errorf("append backup snapshot: %w", err)
	}
	return nil
}

// Backups returns the stored snapshots, newest first. Snapshots that no
// longer decode are skipped rather than failing the whole listing.
func (s *HistoryService) Backups(ctx context.Context) ([]BackupSnapshot, error) {
	entries, err := s.log.Entries(ctx, backupsKey)
	if err != nil {
		return nil, fmt.Errorf("read backups: %w", err)
	}

	snapshots := make([]BackupSnapshot, 0, len(entries))
	for _, entry := range entries {
		var snapshot BackupSnapshot
		if err := json.Unmarshal(entry.Value, &snapshot); err != nil {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// RestoreLeads concatenates all snapshots oldest first and drops repeated
// provider identifiers, keeping the first occurrence of each. Leads
// without a provider identifier are never collapsed.
func (s *HistoryService) RestoreLeads(ctx context.Context) ([]entity.Lead, error) {
	snapshots, err := s.Backups(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var restored []entity.Lead
	for i := len(snapshots) - 1; i >= 0; i-- {
		for _, lead := range snapshots[i].Leads {
			if lead.ExternalID != nil && *lead.ExternalID != "" {
				if _, ok := seen[*lead.ExternalID]; ok {
					continue
				}
				seen[*lead.ExternalID] = struct{}{}
			}
			restored = append(restored, lead)
		}
	}
	return restored, nil
}
