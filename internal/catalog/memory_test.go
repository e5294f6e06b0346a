package catalog

import (
	"context"
	"testing"
	"time"

	"minimarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CRUDEchoesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewMemoryStore()
	feed, err := s.Subscribe(ctx)
	require.NoError(t, err)

	p, err := s.Insert(ctx, model.Product{Code: "A1", Name: "Arroz", CurrentStock: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, EventInsert, (<-feed).Event)

	_, err = s.Insert(ctx, model.Product{Code: "A1", Name: "Otro"})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	p.Name = "Arroz Costeño"
	_, err = s.Update(ctx, p)
	require.NoError(t, err)
	ev := <-feed
	assert.Equal(t, EventUpdate, ev.Event)
	assert.Equal(t, "Arroz Costeño", ev.Row.Name)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.Equal(t, EventDelete, (<-feed).Event)
	assert.ErrorIs(t, s.Delete(ctx, p.ID), ErrNotFound)
}

func TestMemoryStore_DecrementStockAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(model.Product{ID: "a", Code: "A", CurrentStock: 10})

	_, err := s.DecrementStock(ctx, []StockChange{{ProductID: "a", Quantity: 2}, {ProductID: "missing", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
	p, _ := s.Get(ctx, "a")
	assert.Equal(t, 10, p.CurrentStock)

	out, err := s.DecrementStock(ctx, []StockChange{{ProductID: "a", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 8, out[0].CurrentStock)
}

func TestMemoryStore_SubscribeClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryStore()
	feed, err := s.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-feed:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("feed not closed")
	}
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.Insert(ctx, model.Product{ID: "1", Code: "1"})
	_, _ = s.Insert(ctx, model.Product{ID: "2", Code: "2"})
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", list[0].ID)
}
