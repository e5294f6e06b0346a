package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"minimarket/internal/model"
)

// MemoryAuditRepository keeps the audit log in process. Used in demo mode
// and by service tests.
type MemoryAuditRepository struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

var _ AuditRepository = (*MemoryAuditRepository)(nil)

func NewMemoryAuditRepository() *MemoryAuditRepository { return &MemoryAuditRepository{} }

func (r *MemoryAuditRepository) Create(_ context.Context, e *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *MemoryAuditRepository) List(_ context.Context, filter AuditFilter) ([]model.AuditEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var out []model.AuditEntry
	for _, e := range r.entries {
		if filter.Entity != "" && e.Entity != filter.Entity {
			continue
		}
		if filter.Since != nil && e.Timestamp.Before(*filter.Since) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Username), search) &&
			!strings.Contains(strings.ToLower(e.Details), search) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	total := int64(len(out))
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	from := (page - 1) * limit
	if from > len(out) {
		from = len(out)
	}
	to := from + limit
	if to > len(out) {
		to = len(out)
	}
	return out[from:to], total, nil
}
