package leads

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead and request storage.
//
// UpsertLead guarantees at most one lead document per normalized email:
// an existing lead is updated in place (fields overwritten, LastUpdated
// refreshed) and keeps its id; otherwise a new lead is created.
// CreateRequest always inserts; requests are never deduplicated.
type Repository interface {
	UpsertLead(ctx context.Context, lead *Lead) (string, error)
	CreateRequest(ctx context.Context, req *Request) (string, error)
	GetLeadByEmail(ctx context.Context, email string) (*Lead, error)
	GetLeadByID(ctx context.Context, id string) (*Lead, error)
	ListLeads(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error)
	ListRequests(ctx context.Context, filter ListRequestsFilter) ([]*Request, error)
}

// NewLeadID derives a lead id from the normalized email plus the
// creation instant, so ids are stable to reason about in logs while
// still unique across deletions and re-creations.
func NewLeadID(email string, now time.Time) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("lead_%s_%d", hex.EncodeToString(sum[:6]), now.UnixMilli())
}

// NewRequestID returns a fresh request id.
func NewRequestID() string {
	return "req_" + uuid.NewString()
}

// InMemoryRepository is an in-memory Repository used in tests and local
// development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	byEmail  map[string]*Lead
	requests []*Request
	now      func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byEmail: make(map[string]*Lead),
		now:     time.Now,
	}
}

// UpsertLead creates or updates the lead keyed by normalized email.
func (r *InMemoryRepository) UpsertLead(ctx context.Context, lead *Lead) (string, error) {
	sanitizeLead(lead)
	if lead.Email == "" {
		return "", invalidArgument("email", "missing required field")
	}

	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byEmail[lead.Email]; ok {
		updated := *lead
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.Status = StatusActive
		updated.LastUpdated = now
		r.byEmail[lead.Email] = &updated
		return existing.ID, nil
	}

	created := *lead
	created.ID = NewLeadID(lead.Email, now)
	created.Status = StatusActive
	created.CreatedAt = now
	created.LastUpdated = now
	r.byEmail[lead.Email] = &created
	return created.ID, nil
}

// CreateRequest inserts a new request referencing an existing lead.
func (r *InMemoryRepository) CreateRequest(ctx context.Context, req *Request) (string, error) {
	now := r.now().UTC()

	stored := *req
	if stored.ID == "" {
		stored.ID = NewRequestID()
	}
	if stored.Status == "" {
		stored.Status = StatusPending
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.mu.Lock()
	r.requests = append(r.requests, &stored)
	r.mu.Unlock()

	return stored.ID, nil
}

// GetLeadByEmail retrieves a lead by its normalized email.
func (r *InMemoryRepository) GetLeadByEmail(ctx context.Context, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

// GetLeadByID retrieves a lead by id.
func (r *InMemoryRepository) GetLeadByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lead := range r.byEmail {
		if lead.ID == id {
			out := *lead
			return &out, nil
		}
	}
	return nil, ErrLeadNotFound
}

// ListLeads returns leads ordered by most recent update.
func (r *InMemoryRepository) ListLeads(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	r.mu.RLock()
	all := make([]*Lead, 0, len(r.byEmail))
	for _, lead := range r.byEmail {
		if filter.OnlySuspicious && !lead.IsSuspicious {
			continue
		}
		out := *lead
		all = append(all, &out)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].LastUpdated.After(all[j].LastUpdated) })
	return paginate(all, filter.Offset, filter.Limit), nil
}

// ListRequests returns requests ordered by creation time, newest first.
func (r *InMemoryRepository) ListRequests(ctx context.Context, filter ListRequestsFilter) ([]*Request, error) {
	r.mu.RLock()
	all := make([]*Request, 0, len(r.requests))
	for _, req := range r.requests {
		if filter.Type != "" && req.Type != filter.Type {
			continue
		}
		out := *req
		all = append(all, &out)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, filter.Offset, filter.Limit), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
