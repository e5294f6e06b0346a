package catalog

import (
	"testing"

	"minimarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products(ids ...string) []model.Product {
	out := make([]model.Product, len(ids))
	for i, id := range ids {
		out[i] = model.Product{ID: id, Name: "prod " + id}
	}
	return out
}

func TestReconcile_InsertIsIdempotent(t *testing.T) {
	base := products("a", "b")
	ev := ChangeEvent{Event: EventInsert, Row: Row{ID: "c", Name: "nuevo"}}

	once, changed := Reconcile(base, ev)
	require.True(t, changed)
	assert.Len(t, once, 3)
	assert.Equal(t, "c", once[0].ID)

	twice, changed := Reconcile(once, ev)
	assert.False(t, changed)
	assert.Len(t, twice, 3)
}

func TestReconcile_InsertKnownIDKeepsLocalCopy(t *testing.T) {
	base := products("a")
	out, changed := Reconcile(base, ChangeEvent{Event: EventInsert, Row: Row{ID: "a", Name: "eco"}})
	assert.False(t, changed)
	assert.Equal(t, "prod a", out[0].Name)
}

func TestReconcile_UpdateReplacesByID(t *testing.T) {
	base := products("a", "b", "c")
	out, changed := Reconcile(base, ChangeEvent{Event: EventUpdate, Row: Row{ID: "b", Name: "renombrado", CurrentStock: 7}})
	require.True(t, changed)
	assert.Equal(t, "renombrado", out[1].Name)
	assert.Equal(t, 7, out[1].CurrentStock)
	assert.Equal(t, "prod b", base[1].Name, "input must not be modified")
}

func TestReconcile_UpdateUnknownIsNoop(t *testing.T) {
	base := products("a")
	out, changed := Reconcile(base, ChangeEvent{Event: EventUpdate, Row: Row{ID: "zz"}})
	assert.False(t, changed)
	assert.Equal(t, base, out)
}

func TestReconcile_DeleteFiltersByID(t *testing.T) {
	base := products("a", "b", "c")
	out, changed := Reconcile(base, ChangeEvent{Event: EventDelete, Row: Row{ID: "b"}})
	require.True(t, changed)
	assert.Equal(t, []string{"a", "c"}, []string{out[0].ID, out[1].ID})
	assert.Len(t, base, 3)

	again, changed := Reconcile(out, ChangeEvent{Event: EventDelete, Row: Row{ID: "b"}})
	assert.False(t, changed)
	assert.Len(t, again, 2)
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"event":"UPDATE","row":{"id":"p-9","code":"A1","cost_price":1.5,"sale_price":2.25,"current_stock":3}}`))
	require.NoError(t, err)
	assert.Equal(t, EventUpdate, ev.Event)
	assert.Equal(t, "p-9", ev.Row.ID)
	assert.Equal(t, "2.25", ev.Row.SalePrice.String())

	_, err = DecodeEvent([]byte(`{"event":"TRUNCATE","row":{"id":"x"}}`))
	assert.Error(t, err)
	_, err = DecodeEvent([]byte(`{"event":"INSERT","row":{}}`))
	assert.Error(t, err)
	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}
