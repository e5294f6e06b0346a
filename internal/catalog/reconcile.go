package catalog

import (
	"encoding/json"
	"fmt"

	"minimarket/internal/model"
)

// EventType is the change-feed tag.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"

	// EventResync is raised by a source after a gap in delivery (a dropped
	// LISTEN connection, a failed fetch). Events may have been missed, so the
	// consumer reloads the catalog. It never arrives on the wire and carries
	// no row.
	EventResync EventType = "RESYNC"
)

// ChangeEvent is one notification from the change feed. For DELETE only
// Row.ID is meaningful.
type ChangeEvent struct {
	Event EventType `json:"event"`
	Row   Row       `json:"row"`
}

// DecodeEvent parses a {"event": ..., "row": {...}} envelope.
func DecodeEvent(payload []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	switch ev.Event {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return ChangeEvent{}, fmt.Errorf("decode change event: unknown event %q", ev.Event)
	}
	if ev.Row.ID == "" {
		return ChangeEvent{}, fmt.Errorf("decode change event: row without id")
	}
	return ev, nil
}

// Reconcile applies ev to the cached product list and reports whether the
// list changed. products is never modified.
//
//   - INSERT of a known id is ignored (the local insert already added it)
//   - UPDATE replaces by id; unknown ids are ignored
//   - DELETE removes by id
//
// New products are placed first, matching the newest-first listing.
func Reconcile(products []model.Product, ev ChangeEvent) ([]model.Product, bool) {
	idx := make(map[string]int, len(products))
	for i, p := range products {
		idx[p.ID] = i
	}
	pos, known := idx[ev.Row.ID]

	switch ev.Event {
	case EventInsert:
		if known {
			return products, false
		}
		out := make([]model.Product, 0, len(products)+1)
		out = append(out, FromRow(ev.Row))
		return append(out, products...), true
	case EventUpdate:
		if !known {
			return products, false
		}
		out := make([]model.Product, len(products))
		copy(out, products)
		out[pos] = FromRow(ev.Row)
		return out, true
	case EventDelete:
		if !known {
			return products, false
		}
		out := make([]model.Product, 0, len(products)-1)
		out = append(out, products[:pos]...)
		return append(out, products[pos+1:]...), true
	}
	return products, false
}
