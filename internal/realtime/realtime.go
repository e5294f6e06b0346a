// Package realtime feeds Product Store change notifications into the state
// container. Sources turn a transport (Postgres NOTIFY, Kafka) into a
// channel of catalog.ChangeEvent; Syncer applies them.
package realtime

import (
	"context"

	"minimarket/internal/catalog"
	"minimarket/internal/state"

	"github.com/rs/zerolog/log"
)

// Syncer applies change events to the container until the feed closes.
type Syncer struct {
	feed      catalog.ChangeFeed
	container *state.Container
	resync    func(ctx context.Context) error
}

// SyncOption configures a Syncer.
type SyncOption func(*Syncer)

// WithResync sets the catalog reload run when a source reports a gap.
func WithResync(fn func(ctx context.Context) error) SyncOption {
	return func(s *Syncer) { s.resync = fn }
}

func NewSyncer(feed catalog.ChangeFeed, c *state.Container, opts ...SyncOption) *Syncer {
	s := &Syncer{feed: feed, container: c}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run subscribes and blocks until ctx is cancelled or the feed ends.
func (s *Syncer) Run(ctx context.Context) error {
	events, err := s.feed.Subscribe(ctx)
	if err != nil {
		return err
	}
	log.Info().Msg("realtime: subscribed to product changes")
	for ev := range events {
		if ev.Event == catalog.EventResync {
			s.Resync(ctx)
			continue
		}
		s.Apply(ctx, ev)
	}
	log.Info().Msg("realtime: feed closed")
	return nil
}

// Resync reloads the catalog after a delivery gap. A failed reload is logged;
// the next gap or restart tries again.
func (s *Syncer) Resync(ctx context.Context) {
	if s.resync == nil {
		log.Warn().Msg("realtime: feed gap, no resync configured")
		return
	}
	if err := s.resync(ctx); err != nil {
		log.Error().Err(err).Msg("realtime: catalog resync failed")
		return
	}
	log.Info().Msg("realtime: catalog resynced after feed gap")
}

// Apply merges one event. Known inserts and unknown updates are no-ops.
func (s *Syncer) Apply(ctx context.Context, ev catalog.ChangeEvent) {
	if _, err := s.container.Dispatch(ctx, state.ApplyProductChange{Event: ev}); err != nil {
		log.Warn().Err(err).
			Str("event", string(ev.Event)).
			Str("product_id", ev.Row.ID).
			Msg("realtime: change not applied")
		return
	}
	log.Debug().
		Str("event", string(ev.Event)).
		Str("product_id", ev.Row.ID).
		Msg("realtime: change applied")
}
