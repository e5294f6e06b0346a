package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"minimarket/internal/blobstore"
	"minimarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBlob struct{ blobstore.MemoryStore }

func (f *failingBlob) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestContainer_PersistsDurableSubset(t *testing.T) {
	ctx := context.Background()
	blob := blobstore.NewMemoryStore()
	c := NewContainer(blob)

	_, err := c.Dispatch(ctx, AddProduct{Product: model.Product{ID: "p1"}})
	require.NoError(t, err)
	_, ok, _ := blob.Get(ctx, DefaultKey)
	assert.False(t, ok, "product changes are not persisted")

	_, err = c.Dispatch(ctx, AddSale{Sale: model.Sale{ID: "s1", SaleNumber: "V-1"}})
	require.NoError(t, err)

	raw, ok, _ := blob.Get(ctx, DefaultKey)
	require.True(t, ok)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.ElementsMatch(t, []string{"sales", "kardexEntries", "cashSessions", "alerts"}, keys(m))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestContainer_LoadMergesSeedUsers(t *testing.T) {
	ctx := context.Background()
	blob := blobstore.NewMemoryStore()
	require.NoError(t, blob.Set(ctx, DefaultKey, `{
		"sales":[{"id":"s1","saleNumber":"V-1","total":"10"}],
		"users":[{"id":"99","username":"intruso"}],
		"cashSessions":[{"id":"cs1","status":"active","startAmount":"5"}]
	}`))

	c := NewContainer(blob)
	require.NoError(t, c.Load(ctx))

	s := c.Snapshot()
	assert.Len(t, s.Sales, 1)
	assert.NotNil(t, s.KardexEntries)
	require.Len(t, s.Users, 3)
	for _, u := range s.Users {
		assert.NotEqual(t, "intruso", u.Username)
	}
	require.NotNil(t, s.CurrentCashSession)
	assert.Equal(t, "cs1", s.CurrentCashSession.ID)
}

func TestContainer_LoadEmptyBlob(t *testing.T) {
	c := NewContainer(blobstore.NewMemoryStore())
	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Snapshot().Users, 3)
	assert.Empty(t, c.Snapshot().Sales)
}

func TestContainer_LoadCorruptBlob(t *testing.T) {
	blob := blobstore.NewMemoryStore()
	_ = blob.Set(context.Background(), DefaultKey, "{not json")
	assert.Error(t, NewContainer(blob).Load(context.Background()))
}

func TestContainer_UpdateDecideErrorLeavesState(t *testing.T) {
	c := NewContainer(blobstore.NewMemoryStore())
	before := c.Snapshot()
	_, err := c.Update(context.Background(), func(State) (Action, error) {
		return nil, errors.New("remote down")
	})
	require.Error(t, err)
	assert.Equal(t, before, c.Snapshot())
}

func TestContainer_PersistFailureKeepsState(t *testing.T) {
	c := NewContainer(&failingBlob{})
	_, err := c.Dispatch(context.Background(), AddSale{Sale: model.Sale{ID: "s1"}})
	require.NoError(t, err)
	assert.Len(t, c.Snapshot().Sales, 1)
}

// ctxBlob refuses writes under a cancelled context, like the Redis client.
type ctxBlob struct{ *blobstore.MemoryStore }

func (b ctxBlob) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.MemoryStore.Set(ctx, key, value)
}

func TestContainer_PersistSurvivesCancelledRequest(t *testing.T) {
	blob := ctxBlob{blobstore.NewMemoryStore()}
	c := NewContainer(blob)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Dispatch(ctx, AddSale{Sale: model.Sale{ID: "s1", SaleNumber: "V-1"}})
	require.NoError(t, err)

	raw, ok, err := blob.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "V-1")
}

func TestContainer_SerializesWriters(t *testing.T) {
	c := NewContainer(blobstore.NewMemoryStore())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = c.Update(context.Background(), func(s State) (Action, error) {
				return AddAlert{Alert: model.Alert{ID: string(rune('A' + i%26)) + string(rune('0'+len(s.Alerts)%10))}}, nil
			})
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.Snapshot().Alerts, 50)
}
