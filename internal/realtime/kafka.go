package realtime

import (
	"context"
	"time"

	"minimarket/internal/catalog"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// messageReader is the subset of *kafka.Reader the source needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSource reads {event,row} envelopes from a topic, as produced by CDC
// pipelines. Offsets are committed once the event has been handed off;
// undecodable messages are committed and skipped. A failed fetch closes the
// reader, waits Backoff and opens a new one, then emits an EventResync.
type KafkaSource struct {
	newReader func() messageReader
	Backoff   time.Duration
}

var _ catalog.ChangeFeed = (*KafkaSource)(nil)

func NewKafkaSource(brokers []string, group, topic string) *KafkaSource {
	return &KafkaSource{newReader: func() messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        group,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: 0, // manual commit
		})
	}, Backoff: 2 * time.Second}
}

func (s *KafkaSource) Subscribe(ctx context.Context) (<-chan catalog.ChangeEvent, error) {
	out := make(chan catalog.ChangeEvent, 64)
	go s.loop(ctx, s.newReader(), out)
	return out, nil
}

func (s *KafkaSource) loop(ctx context.Context, r messageReader, out chan<- catalog.ChangeEvent) {
	defer close(out)
	defer func() { _ = r.Close() }()

	send := func(ev catalog.ChangeEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Dur("retry_in", s.Backoff).Msg("realtime: kafka fetch failed, reconnecting")
			_ = r.Close()
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.Backoff):
			}
			r = s.newReader()
			if !send(catalog.ChangeEvent{Event: catalog.EventResync}) {
				return
			}
			continue
		}

		ev, err := catalog.DecodeEvent(m.Value)
		if err != nil {
			log.Warn().Err(err).Int64("offset", m.Offset).Msg("realtime: bad kafka message")
		} else if !send(ev) {
			return
		}
		if err := r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Int64("offset", m.Offset).Msg("realtime: commit failed")
		}
	}
}
