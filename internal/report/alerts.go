package report

import (
	"fmt"
	"time"

	"minimarket/internal/model"
)

// ComputeAlerts merges alerts derived from the catalog with the persisted
// ones: low stock (high severity) first, then expiring soon (medium), then
// persisted alerts in stored order. Derived alerts use stable ids so clients
// can key on them; they are never stored.
func ComputeAlerts(products []model.Product, persisted []model.Alert, now time.Time, window time.Duration) []model.Alert {
	out := make([]model.Alert, 0, len(persisted))
	for _, p := range products {
		if !LowStock(p) {
			continue
		}
		out = append(out, model.Alert{
			ID:          "lowstock-" + p.ID,
			Type:        model.AlertLowStock,
			ProductID:   p.ID,
			ProductName: p.Name,
			Message:     fmt.Sprintf("Stock bajo (%d unidades)", p.CurrentStock),
			Severity:    model.SeverityHigh,
			CreatedAt:   p.UpdatedAt,
		})
	}
	for _, p := range products {
		if !ExpiringSoon(p, now, window) {
			continue
		}
		exp, _ := p.Expiration()
		out = append(out, model.Alert{
			ID:          "expire-" + p.ID,
			Type:        model.AlertExpiration,
			ProductID:   p.ID,
			ProductName: p.Name,
			Message:     "Por vencer el " + exp.Format("02/01/2006"),
			Severity:    model.SeverityMedium,
			CreatedAt:   exp,
		})
	}
	return append(out, persisted...)
}

// Unread counts alerts not marked read.
func Unread(alerts []model.Alert) int {
	n := 0
	for _, a := range alerts {
		if !a.IsRead {
			n++
		}
	}
	return n
}
