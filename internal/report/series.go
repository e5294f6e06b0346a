package report

import (
	"fmt"
	"sort"
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// Period is a time-bucketing granularity.
type Period string

const (
	Daily     Period = "daily"
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Yearly    Period = "yearly"
)

func (p Period) Valid() bool {
	switch p {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// BucketKey returns the bucket of t in loc:
// daily "2006-01-02", weekly the Sunday starting the week, monthly "2006-01",
// quarterly "2006-Q1", yearly "2006".
func BucketKey(t time.Time, p Period, loc *time.Location) string {
	t = t.In(loc)
	switch p {
	case Daily:
		return t.Format("2006-01-02")
	case Weekly:
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format("2006-01-02")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case Yearly:
		return fmt.Sprintf("%d", t.Year())
	default:
		return t.Format("2006-01")
	}
}

// Point is one bucket of a time series.
type Point struct {
	Key     string          `json:"key"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// Series buckets sales by period, ascending by key. Profit per line is
// (line price - current cost) * quantity; lines of deleted products add
// revenue but no profit.
func Series(sales []model.Sale, products []model.Product, p Period, loc *time.Location) []Point {
	cost := make(map[string]decimal.Decimal, len(products))
	for _, pr := range products {
		cost[pr.ID] = pr.CostPrice
	}
	buckets := make(map[string]*Point)
	for _, s := range sales {
		key := BucketKey(s.CreatedAt, p, loc)
		pt, ok := buckets[key]
		if !ok {
			pt = &Point{Key: key, Revenue: decimal.Zero, Profit: decimal.Zero}
			buckets[key] = pt
		}
		pt.Sales++
		pt.Revenue = pt.Revenue.Add(s.Total)
		for _, it := range s.Items {
			if c, ok := cost[it.ProductID]; ok {
				pt.Profit = pt.Profit.Add(it.UnitPrice.Sub(c).Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
		}
	}
	out := make([]Point, 0, len(buckets))
	for _, pt := range buckets {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
