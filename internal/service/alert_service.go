package service

import (
	"context"
	"strings"
	"time"

	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/report"
	"minimarket/internal/state"

	"github.com/google/uuid"
)

// AlertService lists derived and persisted alerts. Only persisted alerts
// can be marked read; derived ones clear when their condition does.
type AlertService interface {
	List(ctx context.Context) *dto.AlertListResponse
	Create(ctx context.Context, req dto.CreateAlertRequest) (*model.Alert, error)
	MarkRead(ctx context.Context, id string) error
}

type alertService struct {
	state  *state.Container
	window time.Duration
	now    clock
}

func NewAlertService(c *state.Container, window time.Duration) AlertService {
	if window <= 0 {
		window = report.DefaultExpiryWindow
	}
	return &alertService{state: c, window: window, now: time.Now}
}

func (s *alertService) List(_ context.Context) *dto.AlertListResponse {
	st := s.state.Snapshot()
	all := report.ComputeAlerts(st.Products, st.Alerts, s.now(), s.window)
	return &dto.AlertListResponse{Data: all, Unread: report.Unread(all)}
}

func (s *alertService) Create(ctx context.Context, req dto.CreateAlertRequest) (*model.Alert, error) {
	a := model.Alert{
		ID:          uuid.NewString(),
		Type:        req.Type,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Message:     strings.TrimSpace(req.Message),
		Severity:    req.Severity,
		CreatedAt:   s.now(),
	}
	if a.ProductName == "" && a.ProductID != "" {
		if p, ok := s.state.Snapshot().Product(a.ProductID); ok {
			a.ProductName = p.Name
		}
	}
	if _, err := s.state.Dispatch(ctx, state.AddAlert{Alert: a}); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *alertService) MarkRead(ctx context.Context, id string) error {
	_, err := s.state.Dispatch(ctx, state.MarkAlertRead{ID: id})
	return err
}
