package service

import (
	"context"
	"time"

	"minimarket/internal/apierror"
	"minimarket/internal/dto"
	"minimarket/internal/report"
	"minimarket/internal/state"
)

type ReportService interface {
	Dashboard(ctx context.Context) report.Dashboard
	Sales(ctx context.Context, actor Actor, q dto.ReportQuery) (*dto.SalesReport, error)
	Profits(ctx context.Context, actor Actor, q dto.ReportQuery) (*dto.ProfitReport, error)
	Inventory(ctx context.Context, actor Actor) (*report.Inventory, error)
	Products(ctx context.Context, actor Actor) (*dto.ProductsReport, error)
}

type reportService struct {
	state  *state.Container
	loc    *time.Location
	window time.Duration
	now    clock
}

// NewReportService buckets dates in loc. window is how far ahead a product
// counts as expiring soon; zero means report.DefaultExpiryWindow.
func NewReportService(c *state.Container, loc *time.Location, window time.Duration) ReportService {
	if loc == nil {
		loc = time.Local
	}
	if window <= 0 {
		window = report.DefaultExpiryWindow
	}
	return &reportService{state: c, loc: loc, window: window, now: time.Now}
}

func (s *reportService) localNow() time.Time { return s.now().In(s.loc) }

// Dashboard is open to every role.
func (s *reportService) Dashboard(_ context.Context) report.Dashboard {
	st := s.state.Snapshot()
	return report.BuildDashboard(st.Products, st.Sales, st.Alerts, st.CurrentCashSession != nil, s.localNow(), s.window)
}

func (s *reportService) Sales(_ context.Context, actor Actor, q dto.ReportQuery) (*dto.SalesReport, error) {
	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	r := report.DateRange(q.Range)
	if r == "" {
		r = report.RangeAll
	}
	since := r.Since(s.localNow())
	out := &dto.SalesReport{
		Summary: report.Summarize(report.Between(s.state.Snapshot().Sales, since, time.Time{})),
		Range:   r,
	}
	if !since.IsZero() {
		out.Since = &since
	}
	return out, nil
}

func (s *reportService) Profits(_ context.Context, actor Actor, q dto.ReportQuery) (*dto.ProfitReport, error) {
	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	period := report.Period(q.Period)
	if period == "" {
		period = report.Monthly
	}
	if !period.Valid() {
		return nil, apierror.ValidationField("period", "Periodo no válido")
	}
	by := report.RankBy(q.By)
	if by == "" {
		by = report.ByQuantity
	}
	if !by.Valid() {
		return nil, apierror.ValidationField("by", "Criterio de ranking no válido")
	}
	n := q.Top
	if n <= 0 {
		n = 5
	}

	st := s.state.Snapshot()
	perf := report.ProductPerformance(st.Sales, st.Products)
	return &dto.ProfitReport{
		Totals:  report.ComputeTotals(st.Sales, st.Products),
		Series:  report.Series(st.Sales, st.Products, period, s.loc),
		Top:     report.Top(perf, n, by),
		Bottom:  report.Bottom(perf, n, by),
		Period:  period,
		Ranking: by,
	}, nil
}

func (s *reportService) Inventory(_ context.Context, actor Actor) (*report.Inventory, error) {
	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	inv := report.InventoryReport(s.state.Snapshot().Products, s.localNow(), s.window)
	return &inv, nil
}

func (s *reportService) Products(_ context.Context, actor Actor) (*dto.ProductsReport, error) {
	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	st := s.state.Snapshot()
	return &dto.ProductsReport{Data: report.ProductPerformance(st.Sales, st.Products)}, nil
}
