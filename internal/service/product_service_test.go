package service

import (
	"context"
	"testing"

	"minimarket/internal/apierror"
	"minimarket/internal/dto"
	"minimarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRequest(code string, stock int) dto.ProductRequest {
	return dto.ProductRequest{
		Code:         code,
		Name:         "Azúcar Rubia 1kg",
		Category:     "Abarrotes",
		CostPrice:    dec("3.00"),
		SalePrice:    dec("4.20"),
		CurrentStock: stock,
		MinStock:     5,
		MaxStock:     80,
	}
}

func TestProduct_CreateRecordsEntryAndAudit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.products.Create(ctx, admin, productRequest("AZ01", 12))
	require.NoError(t, err)
	assert.True(t, p.ProfitPercentage.Equal(dec("40")))

	st := f.state.Snapshot()
	require.Len(t, st.Products, 1)
	require.Len(t, st.KardexEntries, 1)
	assert.Equal(t, model.KardexEntryType, st.KardexEntries[0].Type)
	assert.Equal(t, 12, st.KardexEntries[0].Quantity)
	assert.Equal(t, []model.AuditAction{model.AuditCreate}, f.auditActions())

	_, err = f.products.Create(ctx, admin, productRequest("AZ01", 1))
	assert.ErrorIs(t, err, apierror.ErrValidation, "duplicate code")
	assert.Len(t, f.state.Snapshot().Products, 1)
}

func TestProduct_WritesNeedAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, product("p1", "A001", "Arroz", 3, "3", "4"))

	_, err := f.products.Create(ctx, super, productRequest("X1", 0))
	assert.ErrorIs(t, err, apierror.ErrPermission)
	_, err = f.products.Update(ctx, cashier, "p1", productRequest("A001", 0))
	assert.ErrorIs(t, err, apierror.ErrPermission)
	assert.ErrorIs(t, f.products.Delete(ctx, cashier, "p1"), apierror.ErrPermission)
}

func TestProduct_Validation(t *testing.T) {
	f := newFixture(t)
	req := productRequest("X1", 0)
	req.SalePrice = dec("2.00")
	_, err := f.products.Create(context.Background(), admin, req)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "salePrice")

	bad := "14/03/2025"
	req = productRequest("X1", 0)
	req.ExpirationDate = &bad
	_, err = f.products.Create(context.Background(), admin, req)
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "expirationDate")
}

func TestProduct_UpdateStockDeltaAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, product("p1", "A001", "Arroz", 10, "3", "4"))

	req := productRequest("A001", 7)
	updated, err := f.products.Update(ctx, admin, "p1", req)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.CurrentStock)

	st := f.state.Snapshot()
	require.Len(t, st.KardexEntries, 1)
	assert.Equal(t, model.KardexAdjustmentType, st.KardexEntries[0].Type)
	assert.Equal(t, 3, st.KardexEntries[0].Quantity)

	require.NoError(t, f.products.Delete(ctx, admin, "p1"))
	_, ok := f.state.Snapshot().Product("p1")
	assert.False(t, ok)
	assert.ErrorIs(t, f.products.Delete(ctx, admin, "p1"), apierror.ErrNotFound)

	k, err := f.products.Kardex(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, k.Entries, 1, "kardex outlives the product")
}

func TestProduct_ListAndRefresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		product("p1", "A001", "Arroz", 1, "3", "4"),
		product("p2", "B001", "Azúcar", 50, "3", "4"),
	)

	low, err := f.products.List(ctx, dto.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Equal(t, 1, low.Total)
	assert.Equal(t, "p1", low.Data[0].ID)

	found, err := f.products.List(ctx, dto.ProductFilter{Search: "azucar"})
	require.NoError(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "p2", found.Data[0].ID)

	_, err = f.store.Insert(ctx, product("p3", "C001", "Café", 5, "8", "12"))
	require.NoError(t, err)
	n, err := f.products.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "p3", f.state.Snapshot().Products[0].ID)

	_, err = f.products.Get(ctx, "zzz")
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}
