package catalog

import (
	"context"
	"sync"
	"time"

	"minimarket/internal/model"

	"github.com/google/uuid"
)

// MemoryStore is an in-process ProductStore and ChangeFeed. It backs demo
// mode and tests, and echoes every write to its subscribers the way the
// database trigger does.
type MemoryStore struct {
	mu       sync.Mutex
	order    []string
	products map[string]model.Product
	subs     []chan ChangeEvent
	now      func() time.Time
}

func NewMemoryStore(seed ...model.Product) *MemoryStore {
	s := &MemoryStore{products: make(map[string]model.Product), now: time.Now}
	for _, p := range seed {
		s.order = append(s.order, p.ID)
		s.products[p.ID] = p
	}
	return s
}

var (
	_ ProductStore = (*MemoryStore)(nil)
	_ ChangeFeed   = (*MemoryStore)(nil)
)

func (s *MemoryStore) List(_ context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.products[s.order[i]])
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Insert(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.Code == p.Code {
			return model.Product{}, ErrDuplicateCode
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	s.order = append(s.order, p.ID)
	s.products[p.ID] = p
	s.publish(ChangeEvent{Event: EventInsert, Row: ToRow(p)})
	return p, nil
}

func (s *MemoryStore) Update(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return model.Product{}, ErrNotFound
	}
	for id, existing := range s.products {
		if id != p.ID && existing.Code == p.Code {
			return model.Product{}, ErrDuplicateCode
		}
	}
	p.UpdatedAt = s.now()
	s.products[p.ID] = p
	s.publish(ChangeEvent{Event: EventUpdate, Row: ToRow(p)})
	return p, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.publish(ChangeEvent{Event: EventDelete, Row: ToRow(p)})
	return nil
}

func (s *MemoryStore) DecrementStock(_ context.Context, changes []StockChange) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range changes {
		if _, ok := s.products[ch.ProductID]; !ok {
			return nil, ErrNotFound
		}
	}
	now := s.now()
	out := make([]model.Product, 0, len(changes))
	for _, ch := range changes {
		p := s.products[ch.ProductID]
		p.CurrentStock -= ch.Quantity
		p.UpdatedAt = now
		s.products[p.ID] = p
		out = append(out, p)
		s.publish(ChangeEvent{Event: EventUpdate, Row: ToRow(p)})
	}
	return out, nil
}

// Subscribe registers a buffered listener. Slow listeners drop events rather
// than block writers.
func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	ch := make(chan ChangeEvent, 64)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// publish must be called with s.mu held.
func (s *MemoryStore) publish(ev ChangeEvent) {
	for _, sub := range s.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}
