package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"minimarket/internal/config"
	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoConfig(t *testing.T, redisURL string) *config.Config {
	return &config.Config{
		Env:                "demo",
		WorkerPoolSize:     1,
		RedisURL:           redisURL,
		BlobKey:            "inventorySystem",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		ReceiptStoragePath: t.TempDir(),
		BusinessName:       "Minimarket Karito",
		Timezone:           "UTC",
		AlertExpiryDays:    30,
	}
}

func TestParseCatalog(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	products, err := ParseCatalog(strings.NewReader(`
products:
  - code: "A1"
    name: " Azúcar Rubia 1kg "
    cost_price: "3.00"
    sale_price: "3.60"
    current_stock: 10
    expiration_date: "2025-06-30"
`), now)
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Azúcar Rubia 1kg", p.Name)
	assert.Equal(t, "20", p.ProfitPercentage.String())
	require.NotNil(t, p.ExpirationDate)
	assert.Equal(t, "2025-06-30", *p.ExpirationDate)
	assert.Equal(t, now, p.CreatedAt)
}

func TestParseCatalogRejectsBadItems(t *testing.T) {
	for name, doc := range map[string]string{
		"missing name": "products:\n  - code: A1\n    cost_price: '1'\n    sale_price: '2'\n",
		"bad price":    "products:\n  - code: A1\n    name: X\n    cost_price: uno\n    sale_price: '2'\n",
		"bad date":     "products:\n  - code: A1\n    name: X\n    cost_price: '1'\n    sale_price: '2'\n    expiration_date: 30/06/2025\n",
		"not yaml":     "products: [",
	} {
		_, err := ParseCatalog(strings.NewReader(doc), time.Now())
		assert.Error(t, err, name)
	}
}

func TestDemoCatalog(t *testing.T) {
	products := DemoCatalog(time.Now())
	assert.NotEmpty(t, products)
	codes := map[string]bool{}
	for _, p := range products {
		assert.True(t, p.SalePrice.GreaterThan(p.CostPrice), p.Name)
		assert.False(t, codes[p.Code], "duplicate code %s", p.Code)
		codes[p.Code] = true
	}
}

func TestNew_DemoWithoutRedis(t *testing.T) {
	a, err := New(context.Background(), demoConfig(t, "redis://127.0.0.1:1/0"))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Nil(t, a.Redis)
	assert.Nil(t, a.StartWorkers(context.Background()))
	assert.Len(t, a.State.Snapshot().Products, len(DemoCatalog(time.Now())))
	assert.Nil(t, a.HealthDeps().Redis)
}

func TestNew_DemoReceiptPipeline(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := demoConfig(t, "redis://"+mr.Addr()+"/0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	pool := a.StartWorkers(ctx)
	require.NotNil(t, pool)

	admin := service.Actor{UserID: "1", Username: "admin", Role: model.RoleAdmin}
	p := a.State.Snapshot().Products[0]
	sale, err := a.Services.Sales.Process(ctx, admin, dto.ProcessSaleRequest{
		Items:         []dto.SaleLine{{ProductID: p.ID, Quantity: 1}},
		CustomerEmail: "cliente@example.com",
	})
	require.NoError(t, err)

	pdf := filepath.Join(cfg.ReceiptStoragePath, sale.SaleNumber+".pdf")
	require.Eventually(t, func() bool {
		_, err := os.Stat(pdf)
		return err == nil
	}, 10*time.Second, 50*time.Millisecond)

	// The persisted subset survives a restart through the same blob store.
	restarted, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(restarted.Close)
	got, err := restarted.Services.Sales.Get(ctx, sale.SaleNumber)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)

	cancel()
	pool.Wait()
}
