package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadhive/superapp/api/internal/dto"
	"github.com/leadhive/superapp/api/internal/entity"
)

// ErrLeadNotFound is returned when no lead matches the lookup criteria.
var ErrLeadNotFound = errors.New("lead not found")

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	BulkInsert(ctx context.Context, leads []entity.Lead) (int, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error)
	ListAll(ctx context.Context) ([]entity.Lead, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Lead, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*entity.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
}

const leadColumns = `
            id,
            external_id,
            search_id,
            business_name,
            phone,
            email,
            address,
            website,
            category,
            status,
            notes,
            call_schedule,
            is_favorite,
            source,
            raw,
            created_at,
            updated_at`

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const insertLeadSQL = `
        INSERT INTO leads (
            id, external_id, search_id, business_name, phone, email, address,
            website, category, status, notes, call_schedule, is_favorite,
            source, raw, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15::jsonb,NOW());
    `

// BulkInsert persists a deduplicated ingestion batch. Identity-key
// uniqueness is the pipeline's job; the storage layer does not enforce it.
func (r *PGXLeadsRepository) BulkInsert(ctx context.Context, leads []entity.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("start bulk insert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, lead := range leads {
		raw := lead.Raw
		if len(raw) == 0 {
			raw = json.RawMessage("{}")
		}
		status := lead.Status
		if status == "" {
			status = entity.StatusNew
		}
		id := lead.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		if _, err := tx.Exec(ctx, insertLeadSQL,
			id,
			lead.ExternalID,
			lead.SearchID,
			lead.BusinessName,
			lead.Phone,
			lead.Email,
			lead.Address,
			lead.Website,
			lead.Category,
			status,
			lead.Notes,
			lead.CallSchedule,
			lead.IsFavorite,
			lead.Source,
			string(raw),
		); err != nil {
			return inserted, fmt.Errorf("insert lead %q: %w", lead.BusinessName, err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return inserted, fmt.Errorf("commit bulk insert tx: %w", err)
	}
	return inserted, nil
}

// List retrieves leads matching the provided filter, newest first by default.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`SELECT` + leadColumns + ` FROM leads`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(business_name ILIKE $%d OR address ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(status) = LOWER($%d)", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = $%d", idx))
		args = append(args, filter.Source)
		idx++
	}
	if filter.Favorite != nil {
		clauses = append(clauses, fmt.Sprintf("is_favorite = $%d", idx))
		args = append(args, *filter.Favorite)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	orderClause := "created_at DESC"
	switch strings.ToLower(filter.Sort) {
	case "name":
		orderClause = "business_name ASC"
	case "updated":
		orderClause = "updated_at DESC"
	case "schedule":
		orderClause = "call_schedule ASC NULLS LAST, created_at DESC"
	}
	baseQuery.WriteString(" ORDER BY ")
	baseQuery.WriteString(orderClause)

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListAll returns every lead, oldest first, for cleanup analysis and export.
func (r *PGXLeadsRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+leadColumns+` FROM leads ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// GetByIDs fetches the given leads, preserving no particular order.
func (r *PGXLeadsRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Lead, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT`+leadColumns+` FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get leads by ids: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// Update patches workflow fields on a single lead.
func (r *PGXLeadsRepository) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*entity.Lead, error) {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	appendSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Status != nil {
		appendSet("status", strings.TrimSpace(*req.Status))
	}
	if req.Notes != nil {
		appendSet("notes", *req.Notes)
	}
	if req.CallSchedule != nil {
		appendSet("call_schedule", *req.CallSchedule)
	}
	if req.IsFavorite != nil {
		appendSet("is_favorite", *req.IsFavorite)
	}
	if req.Phone != nil {
		appendSet("phone", strings.TrimSpace(*req.Phone))
	}
	if req.Email != nil {
		appendSet("email", strings.TrimSpace(*req.Email))
	}

	if len(setClauses) == 0 {
		return r.getByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING`+leadColumns,
		strings.Join(setClauses, ", "), idx)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

func (r *PGXLeadsRepository) getByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT`+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("fetch lead: %w", err)
	}
	return lead, nil
}

// Delete removes a single lead by id.
func (r *PGXLeadsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// DeleteMany removes the selected leads and reports how many went away.
func (r *PGXLeadsRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete leads: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead         entity.Lead
		externalID   sql.NullString
		searchID     sql.NullString
		callSchedule sql.NullTime
		raw          []byte
	)

	err := row.Scan(
		&lead.ID,
		&externalID,
		&searchID,
		&lead.BusinessName,
		&lead.Phone,
		&lead.Email,
		&lead.Address,
		&lead.Website,
		&lead.Category,
		&lead.Status,
		&lead.Notes,
		&callSchedule,
		&lead.IsFavorite,
		&lead.Source,
		&raw,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if externalID.Valid {
		val := externalID.String
		lead.ExternalID = &val
	}
	if searchID.Valid {
		parsed, err := uuid.Parse(searchID.String)
		if err != nil {
			return nil, fmt.Errorf("parse search_id: %w", err)
		}
		lead.SearchID = &parsed
	}
	if callSchedule.Valid {
		ts := callSchedule.Time
		lead.CallSchedule = &ts
	}
	if len(raw) > 0 {
		lead.Raw = json.RawMessage(raw)
	} else {
		lead.Raw = json.RawMessage("{}")
	}

	return &lead, nil
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}
