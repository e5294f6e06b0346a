package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"minimarket/internal/catalog"
	"minimarket/internal/infra"
	"minimarket/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.Migrate(db))
	return db
}

func product(code, name string, stock int) model.Product {
	return model.Product{
		Code:         code,
		Name:         name,
		Category:     "Abarrotes",
		CostPrice:    decimal.RequireFromString("3"),
		SalePrice:    decimal.RequireFromString("4.5"),
		CurrentStock: stock,
		MinStock:     5,
		MaxStock:     100,
	}
}

func newStore(t *testing.T) *ProductStore {
	s := NewProductStore(newTestDB(t))
	clock := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestProductStoreInsertAndList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a, err := s.Insert(ctx, product("A1", "Arroz", 10))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	b, err := s.Insert(ctx, product("B1", "Leche", 3))
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "newest first")
	assert.Equal(t, a.ID, list[1].ID)
	assert.True(t, list[1].SalePrice.Equal(decimal.RequireFromString("4.5")))

	_, err = s.Insert(ctx, product("A1", "Otro", 1))
	assert.ErrorIs(t, err, catalog.ErrDuplicateCode)
}

func TestProductStoreUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	p, err := s.Insert(ctx, product("A1", "Arroz", 10))
	require.NoError(t, err)

	p.Name = "Arroz Extra"
	p.CreatedAt = time.Time{}
	updated, err := s.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Arroz Extra", updated.Name)
	assert.False(t, updated.CreatedAt.IsZero(), "creation time is preserved")

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arroz Extra", got.Name)

	_, err = s.Update(ctx, model.Product{ID: "missing", Code: "X"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), catalog.ErrNotFound)
	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDecrementStockIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a, err := s.Insert(ctx, product("A1", "Arroz", 10))
	require.NoError(t, err)
	b, err := s.Insert(ctx, product("B1", "Leche", 3))
	require.NoError(t, err)

	out, err := s.DecrementStock(ctx, []catalog.StockChange{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 8, out[0].CurrentStock)
	assert.Equal(t, 2, out[1].CurrentStock)

	_, err = s.DecrementStock(ctx, []catalog.StockChange{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: "missing", Quantity: 1},
	})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.CurrentStock, "failed batch leaves stock untouched")
}

func TestAuditRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository(newTestDB(t))
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	entries := []model.AuditEntry{
		{ID: "1", Timestamp: base.Add(-48 * time.Hour), UserID: "1", Username: "admin", Action: model.AuditCreate, Entity: model.EntityProduct, EntityID: "p1", Details: "Producto creado: Arroz"},
		{ID: "2", Timestamp: base.Add(-time.Hour), UserID: "3", Username: "vendedor", Action: model.AuditSale, Entity: model.EntitySale, EntityID: "s1", Details: "Venta V-1"},
		{ID: "3", Timestamp: base, UserID: "3", Username: "vendedor", Action: model.AuditLogout, Entity: model.EntityUser, EntityID: "3", Details: "Cierre de sesión"},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	all, total, err := repo.List(ctx, AuditFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "3", all[0].ID, "newest first")

	sales, _, err := repo.List(ctx, AuditFilter{Entity: model.EntitySale})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "s1", sales[0].EntityID)

	found, _, err := repo.List(ctx, AuditFilter{Search: "ARROZ"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)

	since := base.Add(-24 * time.Hour)
	recent, _, err := repo.List(ctx, AuditFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
