package service

import (
	"context"
	"testing"

	"minimarket/internal/apierror"
	"minimarket/internal/cart"
	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddUpdateCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, product("p1", "A001", "Arroz", 3, "3", "4.50"))
	openSession(t, f, cashier, "0")

	c, err := f.carts.AddItem(ctx, cashier, "p1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	c, err = f.carts.AddItem(ctx, cashier, "p1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1, "same product increments the line")
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.True(t, c.Total.Equal(dec("9")))

	_, err = f.carts.UpdateQuantity(ctx, cashier, c.Lines[0].ID, 4)
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)

	f.carts.SetCheckoutInfo(ctx, cashier, dto.CheckoutInfoRequest{PaymentMethod: "plin", OperationNumber: "PL-9", CustomerName: "Ana"})

	sale, err := f.carts.Checkout(ctx, cashier)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPlin, sale.PaymentMethod)
	assert.True(t, sale.Total.Equal(dec("9")))

	after := f.carts.Get(ctx, cashier)
	assert.Empty(t, after.Lines)
	assert.Equal(t, model.PaymentCash, after.Checkout.PaymentMethod, "checkout info resets with the lines")
	p, _ := f.state.Snapshot().Product("p1")
	assert.Equal(t, 1, p.CurrentStock)
}

func TestCart_UpdateQuantityAfterProductLeftCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, product("p1", "A001", "Arroz", 3, "3", "4.50"))

	c, err := f.carts.AddItem(ctx, cashier, "p1")
	require.NoError(t, err)
	_, err = f.state.Dispatch(ctx, state.DeleteProduct{ID: "p1"})
	require.NoError(t, err)

	c, err = f.carts.UpdateQuantity(ctx, cashier, c.Lines[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestCart_FailedCheckoutKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, product("p1", "A001", "Arroz", 3, "3", "4"))
	openSession(t, f, cashier, "0")

	_, err := f.carts.AddItem(ctx, cashier, "p1")
	require.NoError(t, err)
	f.carts.SetCheckoutInfo(ctx, cashier, dto.CheckoutInfoRequest{PaymentMethod: "card"})

	_, err = f.carts.Checkout(ctx, cashier)
	require.ErrorIs(t, err, ErrMissingOperationNumber)
	assert.Len(t, f.carts.Get(ctx, cashier).Lines, 1)
}

func TestCart_EmptyCheckout(t *testing.T) {
	f := newFixture(t)
	openSession(t, f, cashier, "0")
	_, err := f.carts.Checkout(context.Background(), cashier)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCart_PerUserAndRefusals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		product("p1", "A001", "Arroz", 3, "3", "4"),
		product("p0", "A000", "Agotado", 0, "3", "4"),
	)

	_, err := f.carts.AddItem(ctx, cashier, "p0")
	assert.ErrorIs(t, err, cart.ErrOutOfStock)
	_, err = f.carts.AddItem(ctx, cashier, "nope")
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	c, err := f.carts.AddItem(ctx, cashier, "p1")
	require.NoError(t, err)
	assert.Empty(t, f.carts.Get(ctx, super).Lines, "carts are per user")

	_, err = f.carts.RemoveItem(ctx, cashier, "missing")
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	c, err = f.carts.UpdateQuantity(ctx, cashier, c.Lines[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	_, err = f.carts.AddItem(ctx, cashier, "p1")
	require.NoError(t, err)
	assert.Empty(t, f.carts.Clear(ctx, cashier).Lines)
}
