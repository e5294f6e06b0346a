package report

import (
	"sort"
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalProducts int             `json:"totalProducts"`
	LowStockCount int             `json:"lowStockCount"`
	TodaySales    int             `json:"todaySales"`
	TodayRevenue  decimal.Decimal `json:"todayRevenue"`
	UnreadAlerts  int             `json:"unreadAlerts"`
	RecentSales   []model.Sale    `json:"recentSales"`
	SessionActive bool            `json:"sessionActive"`
	Alerts        []model.Alert   `json:"alerts"`
}

// BuildDashboard summarizes the day in now's location.
func BuildDashboard(products []model.Product, sales []model.Sale, alerts []model.Alert, sessionActive bool, now time.Time, window time.Duration) Dashboard {
	today := Between(sales, RangeToday.Since(now), time.Time{})
	all := ComputeAlerts(products, alerts, now, window)

	d := Dashboard{
		TotalProducts: len(products),
		TodaySales:    len(today),
		TodayRevenue:  decimal.Zero,
		UnreadAlerts:  Unread(all),
		RecentSales:   Recent(sales, 5),
		SessionActive: sessionActive,
		Alerts:        all,
	}
	for _, p := range products {
		if LowStock(p) {
			d.LowStockCount++
		}
	}
	for _, s := range today {
		d.TodayRevenue = d.TodayRevenue.Add(s.Total)
	}
	return d
}

// Recent returns the n newest sales, newest first.
func Recent(sales []model.Sale, n int) []model.Sale {
	sorted := make([]model.Sale, len(sales))
	copy(sorted, sales)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
