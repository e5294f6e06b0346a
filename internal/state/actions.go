package state

import (
	"time"

	"minimarket/internal/catalog"
	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// Action is the closed set of state transitions. Only types in this file
// implement it.
type Action interface {
	Name() string
	// durable reports whether the action can change the persisted subset.
	durable() bool
}

// AddProduct caches a product the Product Store accepted, newest first. A
// known id is replaced in place.
type AddProduct struct{ Product model.Product }

// UpdateProduct replaces a cached product by id.
type UpdateProduct struct{ Product model.Product }

// DeleteProduct drops a cached product.
type DeleteProduct struct{ ID string }

// ApplyProductChange merges a realtime notification into the cache.
type ApplyProductChange struct{ Event catalog.ChangeEvent }

type AddSale struct{ Sale model.Sale }

type AddKardexEntry struct{ Entry model.KardexEntry }

type Login struct{ User model.User }

// Logout clears the current user. An active session owned by the user is
// force-closed at At first.
type Logout struct {
	UserID string
	At     time.Time
}

// StartCashSession makes Session the active session and appends it to history.
type StartCashSession struct{ Session model.CashSession }

// EndCashSession clears the active-session pointer for SessionID.
type EndCashSession struct{ SessionID string }

// RecordSessionHistory replaces the history entry with the same id, or
// appends it when absent.
type RecordSessionHistory struct{ Session model.CashSession }

type AddAlert struct{ Alert model.Alert }

type MarkAlertRead struct{ ID string }

// LoadData bulk-replaces state. Nil fields are left untouched.
type LoadData struct {
	Products  []model.Product
	Users     []model.User
	Persisted *Persisted
}

// Batch applies Actions in order, all or nothing.
type Batch struct{ Actions []Action }

func (AddProduct) Name() string           { return "add_product" }
func (UpdateProduct) Name() string        { return "update_product" }
func (DeleteProduct) Name() string        { return "delete_product" }
func (ApplyProductChange) Name() string   { return "apply_product_change" }
func (AddSale) Name() string              { return "add_sale" }
func (AddKardexEntry) Name() string       { return "add_kardex_entry" }
func (Login) Name() string                { return "login" }
func (Logout) Name() string               { return "logout" }
func (StartCashSession) Name() string     { return "start_cash_session" }
func (EndCashSession) Name() string       { return "end_cash_session" }
func (RecordSessionHistory) Name() string { return "record_session_history" }
func (AddAlert) Name() string             { return "add_alert" }
func (MarkAlertRead) Name() string        { return "mark_alert_read" }
func (LoadData) Name() string             { return "load_data" }
func (Batch) Name() string                { return "batch" }

func (AddProduct) durable() bool           { return false }
func (UpdateProduct) durable() bool        { return false }
func (DeleteProduct) durable() bool        { return false }
func (ApplyProductChange) durable() bool   { return false }
func (AddSale) durable() bool              { return true }
func (AddKardexEntry) durable() bool       { return true }
func (Login) durable() bool                { return false }
func (Logout) durable() bool               { return true }
func (StartCashSession) durable() bool     { return true }
func (EndCashSession) durable() bool       { return true }
func (RecordSessionHistory) durable() bool { return true }
func (AddAlert) durable() bool             { return true }
func (MarkAlertRead) durable() bool        { return true }

// LoadData restores what was just read, so writing it back is pointless.
func (LoadData) durable() bool { return false }

func (b Batch) durable() bool {
	for _, a := range b.Actions {
		if a.durable() {
			return true
		}
	}
	return false
}

// closeSession finalizes s at end with totalSales. It is shared by the
// explicit close path and the logout force-close.
func closeSession(s model.CashSession, end time.Time, totalSales decimal.Decimal) model.CashSession {
	s.EndTime = &end
	s.Status = model.SessionClosed
	s.TotalSales = totalSales
	return s
}
