package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"minimarket/internal/app"
	"minimarket/internal/config"
	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// demoApp builds an in-memory application; Redis points at a closed port so
// the state lives in memory.
func demoApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), &config.Config{
		Env:                "demo",
		RedisURL:           "redis://127.0.0.1:1/0",
		BlobKey:            "inventorySystem",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		ReceiptStoragePath: t.TempDir(),
		BusinessName:       "Minimarket Karito",
		Timezone:           "UTC",
		AlertExpiryDays:    30,
	})
	require.NoError(t, err)
	return a
}

func execute(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(func(context.Context) (*app.App, error) { return a, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sell(t *testing.T, a *app.App) *model.Sale {
	t.Helper()
	p := a.State.Snapshot().Products[0]
	sale, err := a.Services.Sales.Process(context.Background(), operator, dto.ProcessSaleRequest{
		Items: []dto.SaleLine{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	return sale
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(DefaultOpener)
	for _, name := range []string{"report", "receipt", "seed", "sessions", "dlq"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	out := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, out)
	assert.Equal(t, "o", out.Shorthand)
}

func TestInvalidOutput(t *testing.T) {
	_, err := execute(t, demoApp(t), "sessions", "-o", "xml")
	assert.ErrorContains(t, err, "invalid output")
}

func TestReportProfitsJSON(t *testing.T) {
	a := demoApp(t)
	sale := sell(t, a)

	out, err := execute(t, a, "report", "profits", "-o", "json")
	require.NoError(t, err)
	var r dto.ProfitReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.Totals.Revenue.Equal(sale.Total))
	require.NotEmpty(t, r.Top)
	assert.Equal(t, sale.Items[0].ProductName, r.Top[0].Name)
}

func TestReportSalesText(t *testing.T) {
	a := demoApp(t)
	sell(t, a)

	out, err := execute(t, a, "report", "sales")
	require.NoError(t, err)
	assert.Contains(t, out, "Ventas: 1")
	assert.Contains(t, out, "Efectivo")
}

func TestReportRejectsUnknownKind(t *testing.T) {
	_, err := execute(t, demoApp(t), "report", "weather")
	assert.Error(t, err)
}

func TestReportInventory(t *testing.T) {
	out, err := execute(t, demoApp(t), "report", "inventory")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORÍA")
	assert.Contains(t, out, "Abarrotes")
}

func TestReceipt(t *testing.T) {
	a := demoApp(t)
	sale := sell(t, a)

	out, err := execute(t, a, "receipt", sale.SaleNumber)
	require.NoError(t, err)
	assert.Contains(t, out, sale.SaleNumber)

	path := filepath.Join(t.TempDir(), "factura.pdf")
	_, err = execute(t, a, "receipt", sale.ID, "--variant", "invoice", "--format", "pdf", "--out", path)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	_, err = execute(t, a, "receipt", "V-0")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	a := demoApp(t)
	ctx := context.Background()
	before, err := a.Store.List(ctx)
	require.NoError(t, err)
	existing := before[0].Code

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`products:
  - code: "`+existing+`"
    name: Duplicado
    cost_price: "1"
    sale_price: "2"
  - code: "NUEVO-1"
    name: Galletas Soda
    cost_price: "0.50"
    sale_price: "0.80"
    current_stock: 30
`), 0o644))

	out, err := execute(t, a, "seed", "--file", path, "-o", "json")
	require.NoError(t, err)
	var res SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, []string{existing}, res.Skipped)

	after, err := a.Store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
}

func TestSeedRequiresFile(t *testing.T) {
	_, err := execute(t, demoApp(t), "seed")
	assert.Error(t, err)
}

func TestSessions(t *testing.T) {
	a := demoApp(t)
	ctx := context.Background()
	_, err := a.Services.Cash.Open(ctx, operator, dto.OpenSessionRequest{OpeningAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = a.Services.Cash.Close(ctx, operator, dto.CloseSessionRequest{})
	require.NoError(t, err)

	out, err := execute(t, a, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "1 sesiones")
}

func TestDLQWithoutRedis(t *testing.T) {
	_, err := execute(t, demoApp(t), "dlq")
	assert.ErrorContains(t, err, "redis")
}

func TestDLQRequeue(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := app.New(context.Background(), &config.Config{
		Env:                "demo",
		RedisURL:           "redis://" + mr.Addr() + "/0",
		BlobKey:            "inventorySystem",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		ReceiptStoragePath: t.TempDir(),
		BusinessName:       "Minimarket Karito",
		Timezone:           "UTC",
		AlertExpiryDays:    30,
	})
	require.NoError(t, err)
	ctx := context.Background()
	worker.SendToDLQ(ctx, a.Redis, worker.QueueEmail, "email", json.RawMessage(`{"to_email":"a@b.pe"}`), "smtp down", worker.MaxAttempts)

	out, err := execute(t, a, "dlq")
	require.NoError(t, err)
	assert.Contains(t, out, "smtp down")

	// withApp closed the client; reopen against the same server.
	a, err = app.New(ctx, a.Config)
	require.NoError(t, err)
	out, err = execute(t, a, "dlq", "--requeue")
	require.NoError(t, err)
	assert.Contains(t, out, "0 comprobantes, 1 correos")
	queued, err := mr.List(worker.QueueEmail)
	require.NoError(t, err)
	assert.Len(t, queued, 1)
}
