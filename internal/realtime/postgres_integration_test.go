//go:build integration

package realtime

import (
	"context"
	"testing"
	"time"

	"minimarket/internal/catalog"
	"minimarket/internal/infra"
	"minimarket/internal/model"
	"minimarket/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Run with: go test -tags integration ./internal/realtime/...
func TestPostgresSourceReceivesTriggerNotifications(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("minimarket_test"),
		tcPostgres.WithUsername("minimarket"),
		tcPostgres.WithPassword("store-key"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(url, "store-key")
	require.NoError(t, err)
	store := repository.NewProductStore(db)

	connCfg, err := infra.StoreConfig(url, "store-key")
	require.NoError(t, err)
	src := NewPostgresSource(connCfg, infra.ProductsChannel)
	src.Backoff = 100 * time.Millisecond
	events, err := src.Subscribe(ctx)
	require.NoError(t, err)

	p, err := store.Insert(ctx, model.Product{
		Code: "A1", Name: "Arroz", CostPrice: decimal.NewFromInt(3), SalePrice: decimal.NewFromInt(4), CurrentStock: 10,
	})
	require.NoError(t, err)

	ev := next(t, events)
	assert.Equal(t, catalog.EventInsert, ev.Event)
	assert.Equal(t, p.ID, ev.Row.ID)
	assert.True(t, ev.Row.SalePrice.Equal(decimal.NewFromInt(4)))

	_, err = store.DecrementStock(ctx, []catalog.StockChange{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)
	ev = next(t, events)
	assert.Equal(t, catalog.EventUpdate, ev.Event)
	assert.Equal(t, 8, ev.Row.CurrentStock)

	require.NoError(t, store.Delete(ctx, p.ID))
	ev = next(t, events)
	assert.Equal(t, catalog.EventDelete, ev.Event)
	assert.Equal(t, p.ID, ev.Row.ID)

	// Killing the listener yields a resync marker once it is back.
	require.NoError(t, db.Exec(
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE query LIKE 'LISTEN%' AND pid <> pg_backend_pid()",
	).Error)
	ev = next(t, events)
	assert.Equal(t, catalog.EventResync, ev.Event)

	_, err = store.Insert(ctx, model.Product{
		Code: "B1", Name: "Azúcar", CostPrice: decimal.NewFromInt(2), SalePrice: decimal.NewFromInt(3), CurrentStock: 5,
	})
	require.NoError(t, err)
	ev = next(t, events)
	assert.Equal(t, catalog.EventInsert, ev.Event)
	assert.Equal(t, "B1", ev.Row.Code)
}

func next(t *testing.T, events <-chan catalog.ChangeEvent) catalog.ChangeEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(10 * time.Second):
		t.Fatal("no notification received")
		return catalog.ChangeEvent{}
	}
}
