package report

import (
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// MethodTotal is the per-payment-method line of a sales summary.
type MethodTotal struct {
	Method  model.PaymentMethod `json:"method"`
	Label   string              `json:"label"`
	Count   int                 `json:"count"`
	Revenue decimal.Decimal     `json:"revenue"`
}

// SalesSummary describes a set of sales.
type SalesSummary struct {
	Count         int             `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
	UnitsSold     int             `json:"unitsSold"`
	ByMethod      []MethodTotal   `json:"byMethod"`
}

// Summarize totals sales overall and per payment method. Every method is
// listed, in model.PaymentMethods order.
func Summarize(sales []model.Sale) SalesSummary {
	byMethod := make(map[model.PaymentMethod]*MethodTotal, len(model.PaymentMethods))
	out := SalesSummary{Revenue: decimal.Zero, AverageTicket: decimal.Zero}
	for _, m := range model.PaymentMethods {
		mt := MethodTotal{Method: m, Label: m.Label(), Revenue: decimal.Zero}
		out.ByMethod = append(out.ByMethod, mt)
	}
	for i := range out.ByMethod {
		byMethod[out.ByMethod[i].Method] = &out.ByMethod[i]
	}

	for _, s := range sales {
		out.Count++
		out.Revenue = out.Revenue.Add(s.Total)
		for _, it := range s.Items {
			out.UnitsSold += it.Quantity
		}
		if mt, ok := byMethod[s.PaymentMethod]; ok {
			mt.Count++
			mt.Revenue = mt.Revenue.Add(s.Total)
		}
	}
	if out.Count > 0 {
		out.AverageTicket = out.Revenue.Div(decimal.NewFromInt(int64(out.Count))).Round(2)
	}
	return out
}

// Between keeps sales created in [from, to). A zero bound is open.
func Between(sales []model.Sale, from, to time.Time) []model.Sale {
	out := make([]model.Sale, 0, len(sales))
	for _, s := range sales {
		if !from.IsZero() && s.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !s.CreatedAt.Before(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DateRange names a relative window: "today", "week", "month" or "all".
type DateRange string

const (
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeAll   DateRange = "all"
)

// Since returns the start of r relative to now, or the zero time for "all".
// "week" is a rolling 7-day window and "month" one calendar month back.
func (r DateRange) Since(now time.Time) time.Time {
	switch r {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}
