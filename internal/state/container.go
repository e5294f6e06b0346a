package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"minimarket/internal/blobstore"
	"minimarket/internal/model"

	"github.com/rs/zerolog/log"
)

// DefaultKey is the blob store key holding the persisted subset.
const DefaultKey = "inventorySystem"

const persistTimeout = 5 * time.Second

// Container is the application state handle. It is created once by the
// composition root and passed to every service that reads or changes state.
// All writes are serialized; readers get immutable snapshots.
type Container struct {
	mu   sync.Mutex
	cur  State
	blob blobstore.Store
	key  string
	now  func() time.Time
}

// Option configures a Container.
type Option func(*Container)

// WithClock overrides time.Now, used when seeding users.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(c *Container) { c.key = key }
}

func NewContainer(blob blobstore.Store, opts ...Option) *Container {
	c := &Container{blob: blob, key: DefaultKey, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	c.cur = State{Users: model.SeedUsers(c.now())}
	return c
}

// Load restores the persisted subset and reseeds users. Persisted users, if
// any, are ignored.
func (c *Container) Load(ctx context.Context) error {
	raw, ok, err := c.blob.Get(ctx, c.key)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	load := LoadData{Users: model.SeedUsers(c.now())}
	if ok && raw != "" {
		var p Persisted
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return fmt.Errorf("load state: decode %q: %w", c.key, err)
		}
		p = Persisted{
			Sales:         nonNil(p.Sales),
			KardexEntries: nonNil(p.KardexEntries),
			CashSessions:  nonNil(p.CashSessions),
			Alerts:        nonNil(p.Alerts),
		}
		load.Persisted = &p
	}

	if _, err := c.Dispatch(ctx, load); err != nil {
		return err
	}
	snap := c.Snapshot()
	log.Info().
		Int("sales", len(snap.Sales)).
		Int("sessions", len(snap.CashSessions)).
		Bool("session_active", snap.CurrentCashSession != nil).
		Msg("state loaded")
	return nil
}

// Snapshot returns the current state. The result must be treated as read-only.
func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Dispatch applies a single action.
func (c *Container) Dispatch(ctx context.Context, a Action) (State, error) {
	return c.Update(ctx, func(State) (Action, error) { return a, nil })
}

// Update runs decide against the current state while holding the write lock
// and applies the action it returns. Nothing changes if decide or the reducer
// fails, so check-then-act sequences (preconditions followed by remote calls)
// cannot interleave with other writers. A nil action is a no-op.
func (c *Container) Update(ctx context.Context, decide func(State) (Action, error)) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := decide(c.cur)
	if err != nil {
		return c.cur, err
	}
	if a == nil {
		return c.cur, nil
	}
	next, err := Reduce(c.cur, a)
	if err != nil {
		return c.cur, err
	}
	c.cur = next

	if a.durable() {
		c.persist(ctx, a)
	}
	return c.cur, nil
}

// persist writes the durable subset. A failed write keeps the in-memory
// state; the next durable change writes the full subset again. The write
// outlives the caller's cancellation: once committed in memory, a change
// must reach the blob even if the request that made it went away.
func (c *Container) persist(ctx context.Context, a Action) {
	raw, err := json.Marshal(c.cur.Persisted())
	if err != nil {
		log.Error().Err(err).Str("action", a.Name()).Msg("state: encode persisted subset")
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := c.blob.Set(ctx, c.key, string(raw)); err != nil {
		log.Error().Err(err).Str("action", a.Name()).Str("key", c.key).Msg("state: persist failed")
	}
}
