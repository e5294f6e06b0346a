package service

import (
	"context"
	"sort"
	"time"

	"minimarket/internal/apierror"
	"minimarket/internal/drawer"
	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/state"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionAlreadyActive = &apierror.Error{Kind: apierror.KindValidation, Code: "session_active", Msg: "Ya existe una sesión de caja activa"}
	ErrNegativeOpening      = apierror.ValidationField("openingAmount", "El monto inicial no puede ser negativo")
	ErrNoSessionToClose     = apierror.Precondition("no_active_session", "No hay una sesión de caja activa")
)

type CashService interface {
	Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.CashReport, error)
	Close(ctx context.Context, actor Actor, req dto.CloseSessionRequest) (*dto.CashReport, error)
	// Active returns nil when no session is open.
	Active(ctx context.Context) (*dto.CashReport, error)
	Report(ctx context.Context, id string) (*dto.CashReport, error)
	History(ctx context.Context, actor Actor, page, limit int) (*dto.CashHistoryResponse, error)
}

type cashService struct {
	state *state.Container
	audit AuditService
	now   clock
}

func NewCashService(c *state.Container, audit AuditService) CashService {
	return &cashService{state: c, audit: audit, now: time.Now}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *cashService) Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.CashReport, error) {
	if req.OpeningAmount.IsNegative() {
		return nil, ErrNegativeOpening
	}
	now := s.now()
	session := model.CashSession{
		ID:            uuid.NewString(),
		UserID:        actor.UserID,
		StartAmount:   req.OpeningAmount,
		CurrentAmount: req.OpeningAmount,
		TotalSales:    decimal.Zero,
		StartTime:     now,
		Status:        model.SessionActive,
	}

	st, err := s.state.Update(ctx, func(cur state.State) (state.Action, error) {
		if cur.CurrentCashSession != nil {
			return nil, ErrSessionAlreadyActive
		}
		return state.StartCashSession{Session: session}, nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, Change{
		Action: model.AuditOpen, Entity: model.EntityCash, EntityID: session.ID,
		Details: "Apertura de caja con S/ " + session.StartAmount.StringFixed(2), New: session,
	})
	log.Info().Str("session_id", session.ID).Str("user_id", actor.UserID).Msg("cash session opened")
	return buildReport(session, st.Sales, now), nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// Totals are taken from the sales whose timestamp falls inside
// [start, close time]. A declared count, when given, is compared with the
// expected cash and classified.

func (s *cashService) Close(ctx context.Context, actor Actor, req dto.CloseSessionRequest) (*dto.CashReport, error) {
	now := s.now()
	var closed model.CashSession

	st, err := s.state.Update(ctx, func(cur state.State) (state.Action, error) {
		if cur.CurrentCashSession == nil {
			return nil, ErrNoSessionToClose
		}
		closed = closeWith(*cur.CurrentCashSession, cur.Sales, now, req.DeclaredCash)
		return state.Batch{Actions: []state.Action{
			state.RecordSessionHistory{Session: closed},
			state.EndCashSession{SessionID: closed.ID},
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	rep := buildReport(closed, st.Sales, now)
	details := "Cierre de caja, ventas S/ " + closed.TotalSales.StringFixed(2)
	if closed.DeviationClass != nil {
		details += ", desvío " + string(*closed.DeviationClass)
	}
	s.audit.Record(ctx, actor, Change{
		Action: model.AuditClose, Entity: model.EntityCash, EntityID: closed.ID,
		Details: details, New: closed,
	})
	log.Info().
		Str("session_id", closed.ID).
		Str("total_sales", closed.TotalSales.StringFixed(2)).
		Str("expected_cash", rep.ExpectedCash.StringFixed(2)).
		Msg("cash session closed")
	return rep, nil
}

func closeWith(cs model.CashSession, sales []model.Sale, now time.Time, declared *decimal.Decimal) model.CashSession {
	scoped := drawer.SessionSales(cs, sales, now)
	end := now
	cs.EndTime = &end
	cs.Status = model.SessionClosed
	cs.TotalSales = drawer.TotalSales(scoped)
	if declared != nil {
		d := *declared
		dev := drawer.CompareCount(d, drawer.ExpectedCash(cs, sales, now))
		cs.DeclaredCash = &d
		cs.Deviation = &dev.Amount
		cs.DeviationPct = &dev.Percent
		cs.DeviationClass = &dev.Class
	}
	return cs
}

// buildReport summarizes cs against the sales in its window.
func buildReport(cs model.CashSession, sales []model.Sale, now time.Time) *dto.CashReport {
	scoped := drawer.SessionSales(cs, sales, now)
	totals := drawer.ByMethod(scoped)
	byMethod := make([]dto.MethodAmount, 0, len(model.PaymentMethods))
	for _, m := range model.PaymentMethods {
		byMethod = append(byMethod, dto.MethodAmount{Method: m, Label: m.Label(), Amount: totals[m]})
	}
	rep := &dto.CashReport{
		Session:      cs,
		SalesCount:   len(scoped),
		TotalSales:   drawer.TotalSales(scoped),
		ExpectedCash: drawer.ExpectedCash(cs, sales, now),
		ByMethod:     byMethod,
		Duration:     drawer.Elapsed(cs, now),
	}
	if cs.DeclaredCash != nil && cs.Deviation != nil && cs.DeviationPct != nil && cs.DeviationClass != nil {
		rep.Deviation = &drawer.Deviation{Amount: *cs.Deviation, Percent: *cs.DeviationPct, Class: *cs.DeviationClass}
	}
	return rep
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *cashService) Active(_ context.Context) (*dto.CashReport, error) {
	st := s.state.Snapshot()
	if st.CurrentCashSession == nil {
		return nil, nil
	}
	return buildReport(*st.CurrentCashSession, st.Sales, s.now()), nil
}

func (s *cashService) Report(_ context.Context, id string) (*dto.CashReport, error) {
	st := s.state.Snapshot()
	cs, ok := st.Session(id)
	if !ok {
		return nil, apierror.NotFound("Sesión de caja no encontrada")
	}
	return buildReport(withLegacyTotal(cs, st.Sales, s.now()), st.Sales, s.now()), nil
}

// History lists closed sessions, newest first.
func (s *cashService) History(_ context.Context, actor Actor, page, limit int) (*dto.CashHistoryResponse, error) {
	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	st := s.state.Snapshot()
	now := s.now()

	closed := make([]model.CashSession, 0, len(st.CashSessions))
	for _, cs := range st.CashSessions {
		if !cs.IsActive() {
			closed = append(closed, withLegacyTotal(cs, st.Sales, now))
		}
	}
	sort.SliceStable(closed, func(i, j int) bool { return closed[i].StartTime.After(closed[j].StartTime) })

	page, limit = paginate(page, limit, 100)
	from, to := pageBounds(len(closed), page, limit)
	return &dto.CashHistoryResponse{Data: closed[from:to], Total: len(closed), Page: page, Limit: limit}, nil
}

// withLegacyTotal fills TotalSales for sessions recorded before totals were
// stored at close.
func withLegacyTotal(cs model.CashSession, sales []model.Sale, now time.Time) model.CashSession {
	if cs.IsActive() || !cs.TotalSales.IsZero() {
		return cs
	}
	cs.TotalSales = drawer.TotalSales(drawer.SessionSales(cs, sales, now))
	return cs
}
