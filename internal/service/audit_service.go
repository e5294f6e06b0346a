package service

import (
	"context"
	"encoding/json"
	"time"

	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/report"
	"minimarket/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Change describes one audited operation.
type Change struct {
	Action   model.AuditAction
	Entity   model.AuditEntity
	EntityID string
	Details  string
	Old      any
	New      any
}

type AuditService interface {
	// Record never fails the caller: write errors are logged and dropped.
	Record(ctx context.Context, actor Actor, c Change)
	List(ctx context.Context, actor Actor, filter dto.AuditFilter) (*dto.AuditListResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
	now  clock
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo, now: time.Now}
}

func (s *auditService) Record(ctx context.Context, actor Actor, c Change) {
	e := &model.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		UserID:    actor.UserID,
		Username:  actor.Username,
		Action:    c.Action,
		Entity:    c.Entity,
		EntityID:  c.EntityID,
		Details:   c.Details,
		OldValue:  encode(c.Old),
		NewValue:  encode(c.New),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		log.Error().Err(err).
			Str("action", string(c.Action)).
			Str("entity", string(c.Entity)).
			Str("entity_id", c.EntityID).
			Msg("audit: no se pudo registrar")
	}
}

func encode(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func (s *auditService) List(ctx context.Context, actor Actor, filter dto.AuditFilter) (*dto.AuditListResponse, error) {
	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	page, limit := paginate(filter.Page, filter.Limit, 500)
	f := repository.AuditFilter{
		Search: filter.Search,
		Entity: model.AuditEntity(filter.Entity),
		Page:   page,
		Limit:  limit,
	}
	if since := report.DateRange(filter.Date).Since(s.now()); !since.IsZero() {
		f.Since = &since
	}
	entries, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.AuditListResponse{Data: entries, Total: total, Page: page, Limit: limit}, nil
}
