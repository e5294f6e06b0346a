// Package report derives analytics from sales and catalog snapshots. Nothing
// here keeps state; every figure is recomputed on each call.
package report

import (
	"sort"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProductStats aggregates one product's sales. Revenue uses the prices
// captured on the sale lines; cost uses the product's current cost price.
type ProductStats struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	UnitsSold     int             `json:"unitsSold"`
	Revenue       decimal.Decimal `json:"revenue"`
	Cost          decimal.Decimal `json:"cost"`
	Profit        decimal.Decimal `json:"profit"`
	AvgUnitProfit decimal.Decimal `json:"avgUnitProfit"`
	// Margin is the catalog margin (sale - cost) / sale * 100.
	Margin    decimal.Decimal `json:"margin"`
	CostPrice decimal.Decimal `json:"costPrice"`
	SalePrice decimal.Decimal `json:"salePrice"`
}

// Margin returns (sale - cost) / sale * 100 rounded to two decimals.
func Margin(cost, sale decimal.Decimal) decimal.Decimal {
	if sale.IsZero() {
		return decimal.Zero
	}
	return sale.Sub(cost).Div(sale).Mul(hundred).Round(2)
}

// ProductPerformance lists every catalog product, in catalog order, with its
// sales figures. Products without sales appear with zeroed metrics. Lines
// whose product no longer exists are skipped since their cost is unknown.
func ProductPerformance(sales []model.Sale, products []model.Product) []ProductStats {
	idx := make(map[string]int, len(products))
	out := make([]ProductStats, len(products))
	for i, p := range products {
		idx[p.ID] = i
		out[i] = ProductStats{
			ProductID:     p.ID,
			Name:          p.Name,
			Category:      p.Category,
			Revenue:       decimal.Zero,
			Cost:          decimal.Zero,
			Profit:        decimal.Zero,
			AvgUnitProfit: decimal.Zero,
			Margin:        Margin(p.CostPrice, p.SalePrice),
			CostPrice:     p.CostPrice,
			SalePrice:     p.SalePrice,
		}
	}

	for _, s := range sales {
		for _, it := range s.Items {
			i, ok := idx[it.ProductID]
			if !ok {
				continue
			}
			st := &out[i]
			qty := decimal.NewFromInt(int64(it.Quantity))
			revenue := it.UnitPrice.Mul(qty)
			cost := st.CostPrice.Mul(qty)
			st.UnitsSold += it.Quantity
			st.Revenue = st.Revenue.Add(revenue)
			st.Cost = st.Cost.Add(cost)
			st.Profit = st.Profit.Add(revenue.Sub(cost))
		}
	}

	for i := range out {
		if out[i].UnitsSold > 0 {
			out[i].AvgUnitProfit = out[i].Profit.Div(decimal.NewFromInt(int64(out[i].UnitsSold))).Round(2)
		}
	}
	return out
}

// Totals is the headline profit block.
type Totals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Margin  decimal.Decimal `json:"margin"`
}

// ComputeTotals sums revenue from sale totals and cost from current cost
// prices. Margin is profit over revenue.
func ComputeTotals(sales []model.Sale, products []model.Product) Totals {
	cost := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		cost[p.ID] = p.CostPrice
	}
	t := Totals{Revenue: decimal.Zero, Cost: decimal.Zero, Margin: decimal.Zero}
	for _, s := range sales {
		t.Revenue = t.Revenue.Add(s.Total)
		for _, it := range s.Items {
			if c, ok := cost[it.ProductID]; ok {
				t.Cost = t.Cost.Add(c.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
		}
	}
	t.Profit = t.Revenue.Sub(t.Cost)
	if t.Revenue.IsPositive() {
		t.Margin = t.Profit.Div(t.Revenue).Mul(hundred).Round(2)
	}
	return t
}

// RankBy selects the ranking metric.
type RankBy string

const (
	ByQuantity RankBy = "quantity"
	ByProfit   RankBy = "profit"
	ByRevenue  RankBy = "revenue"
)

func (r RankBy) Valid() bool { return r == ByQuantity || r == ByProfit || r == ByRevenue }

func (r RankBy) less(a, b ProductStats) bool {
	switch r {
	case ByQuantity:
		return a.UnitsSold < b.UnitsSold
	case ByRevenue:
		return a.Revenue.LessThan(b.Revenue)
	default:
		return a.Profit.LessThan(b.Profit)
	}
}

// Top returns the n best products by metric, best first. Ties keep input order.
func Top(stats []ProductStats, n int, by RankBy) []ProductStats {
	sorted := make([]ProductStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool { return by.less(sorted[j], sorted[i]) })
	return head(sorted, n)
}

// Bottom returns the n worst products by metric, worst first.
func Bottom(stats []ProductStats, n int, by RankBy) []ProductStats {
	sorted := make([]ProductStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool { return by.less(sorted[i], sorted[j]) })
	return head(sorted, n)
}

func head(s []ProductStats, n int) []ProductStats {
	if n >= 0 && n < len(s) {
		return s[:n]
	}
	return s
}
