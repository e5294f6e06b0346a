package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"minimarket/internal/blobstore"
	"minimarket/internal/catalog"
	"minimarket/internal/config"
	"minimarket/internal/model"
	"minimarket/internal/repository"
	"minimarket/internal/state"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ── Fixtures ─────────────────────────────────────────────────────────────────

var (
	admin   = Actor{UserID: "1", Username: "admin", Role: model.RoleAdmin}
	super   = Actor{UserID: "2", Username: "supervisor", Role: model.RoleSupervisor}
	cashier = Actor{UserID: "3", Username: "vendedor", Role: model.RoleCashier}
)

// ticker advances one second per reading so every event gets a distinct,
// ordered timestamp.
type ticker struct {
	mu sync.Mutex
	t  time.Time
}

func newTicker() *ticker {
	return &ticker{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *ticker) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type queuedReceipt struct{ saleID, email string }

type stubQueue struct {
	mu   sync.Mutex
	jobs []queuedReceipt
	err  error
}

func (q *stubQueue) EnqueueReceipt(_ context.Context, saleID, email string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, queuedReceipt{saleID, email})
	return nil
}

// failingStore rejects stock updates.
type failingStore struct{ *catalog.MemoryStore }

func (failingStore) DecrementStock(context.Context, []catalog.StockChange) ([]model.Product, error) {
	return nil, context.DeadlineExceeded
}

type fixture struct {
	store    *catalog.MemoryStore
	state    *state.Container
	auditLog *repository.MemoryAuditRepository
	queue    *stubQueue
	clock    *ticker

	audit    *auditService
	products *productService
	sales    *saleService
	cash     *cashService
	carts    *cartService
	reports  *reportService
	alerts   *alertService
	auth     *authService
}

func newFixture(t *testing.T, products ...model.Product) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store:    catalog.NewMemoryStore(products...),
		state:    state.NewContainer(blobstore.NewMemoryStore()),
		auditLog: repository.NewMemoryAuditRepository(),
		queue:    &stubQueue{},
		clock:    newTicker(),
	}
	listed, err := f.store.List(ctx)
	require.NoError(t, err)
	_, err = f.state.Dispatch(ctx, state.LoadData{Products: listed})
	require.NoError(t, err)

	f.audit = NewAuditService(f.auditLog).(*auditService)
	f.audit.now = f.clock.now
	f.products = NewProductService(f.store, f.state, f.audit).(*productService)
	f.products.now = f.clock.now
	f.sales = NewSaleService(f.store, f.state, f.audit, f.queue).(*saleService)
	f.sales.now = f.clock.now
	f.cash = NewCashService(f.state, f.audit).(*cashService)
	f.cash.now = f.clock.now
	f.carts = NewCartService(f.state, f.sales).(*cartService)
	f.reports = NewReportService(f.state, time.UTC, 0).(*reportService)
	f.reports.now = f.clock.now
	f.alerts = NewAlertService(f.state, 0).(*alertService)
	f.alerts.now = f.clock.now
	f.auth = NewAuthService(f.state, f.audit, &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8}).(*authService)
	f.auth.now = f.clock.now
	return f
}

func product(id, code, name string, stock int, cost, price string) model.Product {
	c, s := decimal.RequireFromString(cost), decimal.RequireFromString(price)
	return model.Product{
		ID:               id,
		Code:             code,
		Name:             name,
		Category:         "Abarrotes",
		CostPrice:        c,
		SalePrice:        s,
		ProfitPercentage: model.ProfitPercentage(c, s),
		CurrentStock:     stock,
		MinStock:         2,
		MaxStock:         100,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) auditActions() []model.AuditAction {
	entries, _, _ := f.auditLog.List(context.Background(), repository.AuditFilter{Limit: 500})
	out := make([]model.AuditAction, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].Action)
	}
	return out
}
