package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadhive/superapp/api/internal/entity"
)

// SearchesRepository records the append-only search audit log.
type SearchesRepository interface {
	Insert(ctx context.Context, search *entity.Search) error
	InsertResults(ctx context.Context, searchID uuid.UUID, leadIDs []uuid.UUID) error
	List(ctx context.Context, limit int) ([]entity.Search, error)
}

// PGXSearchesRepository implements SearchesRepository with pgx.
type PGXSearchesRepository struct {
	pool pgxPool
}

// NewPGXSearchesRepository instantiates a searches repository.
func NewPGXSearchesRepository(pool *pgxpool.Pool) *PGXSearchesRepository {
	return &PGXSearchesRepository{pool: pool}
}

// Insert logs one executed search. The entry is never updated afterwards;
// re-running a term logs a fresh row.
func (r *PGXSearchesRepository) Insert(ctx context.Context, search *entity.Search) error {
	if search == nil {
		return fmt.Errorf("search payload is nil")
	}
	if search.ID == uuid.Nil {
		search.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO searches (id, term, location, source, total_results, executed_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
    `, search.ID, search.Term, search.Location, search.Source, search.TotalResults)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// InsertResults links a search to the leads it produced, ranked in
// provider order starting at 1.
func (r *PGXSearchesRepository) InsertResults(ctx context.Context, searchID uuid.UUID, leadIDs []uuid.UUID) error {
	if len(leadIDs) == 0 {
		return nil
	}

	for rank, leadID := range leadIDs {
		if _, err := r.pool.Exec(ctx, `
            INSERT INTO search_results (search_id, lead_id, rank, inserted_at)
            VALUES ($1, $2, $3, NOW())
        `, searchID, leadID, rank+1); err != nil {
			return fmt.Errorf("insert search result rank %d: %w", rank+1, err)
		}
	}
	return nil
}

// List returns recent searches, newest first.
func (r *PGXSearchesRepository) List(ctx context.Context, limit int) ([]entity.Search, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, term, location, source, total_results, executed_at
        FROM searches
        ORDER BY executed_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var searches []entity.Search
	for rows.Next() {
		var s entity.Search
		if err := rows.Scan(&s.ID, &s.Term, &s.Location, &s.Source, &s.TotalResults, &s.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		searches = append(searches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return searches, nil
}
