package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads and requests in Postgres. The unique
// index on leads.email enforces the one-lead-per-email invariant at the
// database, so concurrent first submissions resolve inside the upsert.
type PostgresRepository struct {
	db  pgxDB
	now func() time.Time
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db pgxDB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db, now: time.Now}
}

// UpsertLead creates or updates the lead row keyed by normalized email.
func (r *PostgresRepository) UpsertLead(ctx context.Context, lead *Lead) (string, error) {
	sanitizeLead(lead)
	if lead.Email == "" {
		return "", invalidArgument("email", "missing required field")
	}

	now := r.now().UTC()
	newID := NewLeadID(lead.Email, now)

	query := `
		INSERT INTO leads (id, email, first_name, last_name, full_name, company, role,
		    phone, identification, language, spam_score, is_suspicious, status, created_at, last_updated)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
		ON CONFLICT (email) DO UPDATE SET
		    first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name, full_name=EXCLUDED.full_name,
		    company=EXCLUDED.company, role=EXCLUDED.role, phone=EXCLUDED.phone,
		    identification=EXCLUDED.identification, language=EXCLUDED.language,
		    spam_score=EXCLUDED.spam_score, is_suspicious=EXCLUDED.is_suspicious,
		    status=EXCLUDED.status, last_updated=EXCLUDED.last_updated
		RETURNING id
	`
	var id string
	if err := r.db.QueryRow(ctx, query,
		newID,
		lead.Email,
		lead.FirstName,
		lead.LastName,
		lead.FullName,
		lead.Company,
		lead.Role,
		lead.Phone,
		lead.Identification,
		lead.Language,
		lead.SpamScore,
		lead.IsSuspicious,
		StatusActive,
		now,
	).Scan(&id); err != nil {
		return "", fmt.Errorf("leads: upsert failed: %w: %w", ErrStorageUnavailable, err)
	}
	return id, nil
}

// CreateRequest inserts a new request row.
func (r *PostgresRepository) CreateRequest(ctx context.Context, req *Request) (string, error) {
	now := r.now().UTC()

	id := req.ID
	if id == "" {
		id = NewRequestID()
	}
	status := req.Status
	if status == "" {
		status = StatusPending
	}

	metadata, err := json.Marshal(req.Metadata)
	if err != nil {
		return "", fmt.Errorf("leads: failed to encode request metadata: %w", err)
	}

	query := `
		INSERT INTO requests (id, type, lead_id, recipient, description, status, metadata, due_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
	`
	if _, err := r.db.Exec(ctx, query,
		id,
		string(req.Type),
		req.Requester.ID,
		req.Recipient,
		req.Description,
		status,
		metadata,
		req.DueDate,
		now,
	); err != nil {
		return "", fmt.Errorf("leads: insert request failed: %w: %w", ErrStorageUnavailable, err)
	}
	return id, nil
}

// GetLeadByEmail fetches a lead by normalized email.
func (r *PostgresRepository) GetLeadByEmail(ctx context.Context, email string) (*Lead, error) {
	return r.getLead(ctx, `WHERE email = $1`, NormalizeEmail(email))
}

// GetLeadByID fetches a lead by id.
func (r *PostgresRepository) GetLeadByID(ctx context.Context, id string) (*Lead, error) {
	return r.getLead(ctx, `WHERE id = $1`, id)
}

const leadColumns = `id, email, first_name, last_name, full_name, company, role,
	phone, identification, language, spam_score, is_suspicious, status, created_at, last_updated`

func (r *PostgresRepository) getLead(ctx context.Context, where string, arg any) (*Lead, error) {
	row := r.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads `+where, arg)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w: %w", ErrStorageUnavailable, err)
	}
	return lead, nil
}

// ListLeads returns leads ordered by most recent update.
func (r *PostgresRepository) ListLeads(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	if filter.OnlySuspicious {
		query += ` WHERE is_suspicious`
	}
	query += ` ORDER BY last_updated DESC LIMIT $1 OFFSET $2`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, query, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

// ListRequests returns requests ordered by creation time, newest first.
func (r *PostgresRepository) ListRequests(ctx context.Context, filter ListRequestsFilter) ([]*Request, error) {
	query := `
		SELECT id, type, lead_id, recipient, description, status, metadata, due_date, created_at, updated_at
		FROM requests`
	args := []any{}
	if filter.Type != "" {
		query += ` WHERE type = $3`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	if filter.Type != "" {
		args = append(args, string(filter.Type))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list requests failed: %w: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	out := []*Request{}
	for rows.Next() {
		var (
			req      Request
			reqType  string
			metadata []byte
		)
		if err := rows.Scan(&req.ID, &reqType, &req.Requester.ID, &req.Recipient, &req.Description,
			&req.Status, &metadata, &req.DueDate, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("leads: scan request failed: %w", err)
		}
		req.Type = RequestType(reqType)
		req.Requester.Type = "lead"
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &req.Metadata); err != nil {
				return nil, fmt.Errorf("leads: decode request metadata failed: %w", err)
			}
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Email,
		&lead.FirstName,
		&lead.LastName,
		&lead.FullName,
		&lead.Company,
		&lead.Role,
		&lead.Phone,
		&lead.Identification,
		&lead.Language,
		&lead.SpamScore,
		&lead.IsSuspicious,
		&lead.Status,
		&lead.CreatedAt,
		&lead.LastUpdated,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
