package report

import (
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultExpiryWindow is how far ahead a product counts as expiring soon.
const DefaultExpiryWindow = 30 * 24 * time.Hour

// LowStock reports current <= min.
func LowStock(p model.Product) bool { return p.CurrentStock <= p.MinStock }

// OverStock reports current >= max.
func OverStock(p model.Product) bool { return p.MaxStock > 0 && p.CurrentStock >= p.MaxStock }

// ExpiringSoon reports an expiration date on or before now+window. Already
// expired products are included.
func ExpiringSoon(p model.Product, now time.Time, window time.Duration) bool {
	exp, ok := p.Expiration()
	if !ok {
		return false
	}
	return !exp.After(now.Add(window))
}

// CategoryStats aggregates the catalog per category.
type CategoryStats struct {
	Category string          `json:"category"`
	Products int             `json:"products"`
	Stock    int             `json:"stock"`
	Value    decimal.Decimal `json:"value"`
}

// Inventory is the stock health report.
type Inventory struct {
	TotalProducts    int             `json:"totalProducts"`
	LowStock         []model.Product `json:"lowStock"`
	OverStock        []model.Product `json:"overStock"`
	ExpiringSoon     []model.Product `json:"expiringSoon"`
	InventoryValue   decimal.Decimal `json:"inventoryValue"`
	PotentialRevenue decimal.Decimal `json:"potentialRevenue"`
	Categories       []CategoryStats `json:"categories"`
}

// InventoryReport values stock at cost and at sale price and groups the
// catalog by category in first-seen order.
func InventoryReport(products []model.Product, now time.Time, window time.Duration) Inventory {
	inv := Inventory{
		TotalProducts:    len(products),
		LowStock:         []model.Product{},
		OverStock:        []model.Product{},
		ExpiringSoon:     []model.Product{},
		InventoryValue:   decimal.Zero,
		PotentialRevenue: decimal.Zero,
		Categories:       []CategoryStats{},
	}
	catIdx := make(map[string]int)
	for _, p := range products {
		stock := decimal.NewFromInt(int64(p.CurrentStock))
		value := p.CostPrice.Mul(stock)
		inv.InventoryValue = inv.InventoryValue.Add(value)
		inv.PotentialRevenue = inv.PotentialRevenue.Add(p.SalePrice.Mul(stock))

		if LowStock(p) {
			inv.LowStock = append(inv.LowStock, p)
		}
		if OverStock(p) {
			inv.OverStock = append(inv.OverStock, p)
		}
		if ExpiringSoon(p, now, window) {
			inv.ExpiringSoon = append(inv.ExpiringSoon, p)
		}

		i, ok := catIdx[p.Category]
		if !ok {
			i = len(inv.Categories)
			catIdx[p.Category] = i
			inv.Categories = append(inv.Categories, CategoryStats{Category: p.Category, Value: decimal.Zero})
		}
		c := &inv.Categories[i]
		c.Products++
		c.Stock += p.CurrentStock
		c.Value = c.Value.Add(value)
	}
	return inv
}
