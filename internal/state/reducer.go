package state

import (
	"fmt"

	"minimarket/internal/apierror"
	"minimarket/internal/catalog"
	"minimarket/internal/drawer"
	"minimarket/internal/model"
)

var (
	errSessionActive = apierror.Precondition("session_active", "Ya existe una sesión de caja activa")
	errNoSession     = apierror.Precondition("no_active_session", "No hay una sesión de caja activa")
)

// Reduce returns the state after applying a. On error the returned state is
// s unchanged; no action is ever partially applied.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case AddProduct:
		if _, known := s.Product(a.Product.ID); known {
			s.Products = replaceByID(s.Products, a.Product, productID)
			return s, nil
		}
		s.Products = append([]model.Product{a.Product}, s.Products...)
		return s, nil

	case UpdateProduct:
		if _, known := s.Product(a.Product.ID); !known {
			return s, apierror.NotFound("Producto no encontrado")
		}
		s.Products = replaceByID(s.Products, a.Product, productID)
		return s, nil

	case DeleteProduct:
		s.Products = removeByID(s.Products, a.ID, productID)
		return s, nil

	case ApplyProductChange:
		s.Products, _ = catalog.Reconcile(s.Products, a.Event)
		return s, nil

	case AddSale:
		if _, dup := s.Sale(a.Sale.ID); dup {
			return s, fmt.Errorf("add sale: duplicate id %s", a.Sale.ID)
		}
		s.Sales = appendCopy(s.Sales, a.Sale)
		return s, nil

	case AddKardexEntry:
		s.KardexEntries = appendCopy(s.KardexEntries, a.Entry)
		return s, nil

	case Login:
		u := a.User
		s.CurrentUser = &u
		return s, nil

	case Logout:
		if cur := s.CurrentCashSession; cur != nil && (a.UserID == "" || cur.UserID == a.UserID) {
			total := drawer.TotalSales(drawer.SessionSales(*cur, s.Sales, a.At))
			closed := closeSession(*cur, a.At, total)
			s.CashSessions = upsertByID(s.CashSessions, closed, sessionID)
			s.CurrentCashSession = nil
		}
		if s.CurrentUser != nil && (a.UserID == "" || s.CurrentUser.ID == a.UserID) {
			s.CurrentUser = nil
		}
		return s, nil

	case StartCashSession:
		if s.CurrentCashSession != nil {
			return s, errSessionActive
		}
		cs := a.Session
		s.CurrentCashSession = &cs
		s.CashSessions = appendCopy(s.CashSessions, cs)
		return s, nil

	case EndCashSession:
		if s.CurrentCashSession == nil || s.CurrentCashSession.ID != a.SessionID {
			return s, errNoSession
		}
		s.CurrentCashSession = nil
		return s, nil

	case RecordSessionHistory:
		s.CashSessions = upsertByID(s.CashSessions, a.Session, sessionID)
		if s.CurrentCashSession != nil && s.CurrentCashSession.ID == a.Session.ID && a.Session.IsActive() {
			cs := a.Session
			s.CurrentCashSession = &cs
		}
		return s, nil

	case AddAlert:
		s.Alerts = appendCopy(s.Alerts, a.Alert)
		return s, nil

	case MarkAlertRead:
		for i, al := range s.Alerts {
			if al.ID == a.ID {
				out := make([]model.Alert, len(s.Alerts))
				copy(out, s.Alerts)
				out[i].IsRead = true
				s.Alerts = out
				return s, nil
			}
		}
		return s, apierror.NotFound("Alerta no encontrada")

	case LoadData:
		if a.Products != nil {
			s.Products = a.Products
		}
		if a.Users != nil {
			s.Users = a.Users
		}
		if p := a.Persisted; p != nil {
			s.Sales = p.Sales
			s.KardexEntries = p.KardexEntries
			s.CashSessions = p.CashSessions
			s.Alerts = p.Alerts
			s.CurrentCashSession = nil
			for i := len(p.CashSessions) - 1; i >= 0; i-- {
				if p.CashSessions[i].IsActive() {
					cs := p.CashSessions[i]
					s.CurrentCashSession = &cs
					break
				}
			}
		}
		return s, nil

	case Batch:
		next := s
		for i, inner := range a.Actions {
			var err error
			if next, err = Reduce(next, inner); err != nil {
				return s, fmt.Errorf("batch step %d (%s): %w", i, inner.Name(), err)
			}
		}
		return next, nil
	}
	return s, fmt.Errorf("unknown action %T", a)
}

// ── Copy-on-write helpers ────────────────────────────────────────────────────

func productID(p model.Product) string     { return p.ID }
func sessionID(s model.CashSession) string { return s.ID }

func appendCopy[T any](in []T, v T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return append(out, v)
}

func replaceByID[T any](in []T, v T, id func(T) string) []T {
	out := make([]T, len(in))
	for i, e := range in {
		if id(e) == id(v) {
			out[i] = v
		} else {
			out[i] = e
		}
	}
	return out
}

func upsertByID[T any](in []T, v T, id func(T) string) []T {
	for _, e := range in {
		if id(e) == id(v) {
			return replaceByID(in, v, id)
		}
	}
	return appendCopy(in, v)
}

func removeByID[T any](in []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(in))
	for _, e := range in {
		if id(e) != target {
			out = append(out, e)
		}
	}
	return out
}
