package realtime

import (
	"context"
	"errors"
	"time"

	"minimarket/internal/catalog"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PostgresSource LISTENs on the products notification channel. A dropped
// connection is re-established after Backoff and followed by an EventResync,
// since NOTIFYs sent while disconnected are lost.
type PostgresSource struct {
	cfg     *pgx.ConnConfig
	channel string
	Backoff time.Duration
}

var _ catalog.ChangeFeed = (*PostgresSource)(nil)

func NewPostgresSource(cfg *pgx.ConnConfig, channel string) *PostgresSource {
	return &PostgresSource{cfg: cfg, channel: channel, Backoff: 2 * time.Second}
}

func (s *PostgresSource) Subscribe(ctx context.Context) (<-chan catalog.ChangeEvent, error) {
	conn, err := s.listen(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan catalog.ChangeEvent, 64)
	go s.loop(ctx, conn, out)
	return out, nil
}

func (s *PostgresSource) listen(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, err
	}
	return conn, nil
}

func (s *PostgresSource) loop(ctx context.Context, conn *pgx.Conn, out chan<- catalog.ChangeEvent) {
	defer close(out)
	defer func() {
		if conn != nil {
			_ = conn.Close(context.Background())
		}
	}()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			log.Warn().Err(err).Str("channel", s.channel).Msg("realtime: listener lost, reconnecting")
			_ = conn.Close(context.Background())
			conn = nil
			for conn == nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.Backoff):
				}
				if conn, err = s.listen(ctx); err != nil {
					log.Warn().Err(err).Msg("realtime: reconnect failed")
				}
			}
			select {
			case out <- catalog.ChangeEvent{Event: catalog.EventResync}:
			case <-ctx.Done():
				return
			}
			continue
		}

		ev, err := catalog.DecodeEvent([]byte(n.Payload))
		if err != nil {
			log.Warn().Err(err).Str("channel", n.Channel).Msg("realtime: bad payload")
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
