// Package drawer holds the cash-drawer arithmetic: which sales belong to a
// session, what the drawer should contain and how long it has been open.
// Every function is pure; callers pass the clock reading.
package drawer

import (
	"fmt"
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// windowEnd is the session end time, or now while it is still open.
func windowEnd(s model.CashSession, now time.Time) time.Time {
	if s.EndTime != nil {
		return *s.EndTime
	}
	return now
}

// InSession reports whether sale falls within [start, end-or-now]. Both
// bounds are inclusive.
func InSession(s model.CashSession, sale model.Sale, now time.Time) bool {
	return !sale.CreatedAt.Before(s.StartTime) && !sale.CreatedAt.After(windowEnd(s, now))
}

// SessionSales returns the sales inside the session window in their original order.
func SessionSales(s model.CashSession, sales []model.Sale, now time.Time) []model.Sale {
	out := make([]model.Sale, 0)
	for _, sale := range sales {
		if InSession(s, sale, now) {
			out = append(out, sale)
		}
	}
	return out
}

// TotalSales sums sale totals.
func TotalSales(sales []model.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Total)
	}
	return total
}

// ByMethod totals sales per payment method. Every method is present.
func ByMethod(sales []model.Sale) map[model.PaymentMethod]decimal.Decimal {
	out := make(map[model.PaymentMethod]decimal.Decimal, len(model.PaymentMethods))
	for _, m := range model.PaymentMethods {
		out[m] = decimal.Zero
	}
	for _, s := range sales {
		out[s.PaymentMethod] = out[s.PaymentMethod].Add(s.Total)
	}
	return out
}

// ExpectedCash is the opening amount plus the cash sales in the window.
// Non-cash methods never reach the drawer.
func ExpectedCash(s model.CashSession, sales []model.Sale, now time.Time) decimal.Decimal {
	expected := s.StartAmount
	for _, sale := range SessionSales(s, sales, now) {
		if sale.PaymentMethod == model.PaymentCash {
			expected = expected.Add(sale.Total)
		}
	}
	return expected
}

// Duration is an elapsed time split into display units.
type Duration struct {
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Seconds      int    `json:"seconds"`
	TotalSeconds int64  `json:"totalSeconds"`
	Text         string `json:"text"`
}

// Elapsed measures the session from start to end-or-now. Negative spans clamp to zero.
func Elapsed(s model.CashSession, now time.Time) Duration {
	d := windowEnd(s, now).Sub(s.StartTime)
	if d < 0 {
		d = 0
	}
	return Split(d)
}

// Split breaks d into whole hours, minutes and seconds.
func Split(d time.Duration) Duration {
	total := int64(d / time.Second)
	out := Duration{
		Hours:        int(total / 3600),
		Minutes:      int(total % 3600 / 60),
		Seconds:      int(total % 60),
		TotalSeconds: total,
	}
	out.Text = out.String()
	return out
}

// String leads with the largest non-zero unit: "1h 2m 3s", "2m 3s", "3s".
func (d Duration) String() string {
	switch {
	case d.Hours > 0:
		return fmt.Sprintf("%dh %dm %ds", d.Hours, d.Minutes, d.Seconds)
	case d.Minutes > 0:
		return fmt.Sprintf("%dm %ds", d.Minutes, d.Seconds)
	default:
		return fmt.Sprintf("%ds", d.Seconds)
	}
}

// Deviation compares a declared cash count with the expected amount.
type Deviation struct {
	Amount  decimal.Decimal      `json:"amount"`
	Percent decimal.Decimal      `json:"percent"`
	Class   model.DeviationClass `json:"class"`
}

// CompareCount computes declared - expected and its percentage of expected.
// With nothing expected any difference counts as critical.
func CompareCount(declared, expected decimal.Decimal) Deviation {
	amount := declared.Sub(expected)
	var pct decimal.Decimal
	switch {
	case !expected.IsZero():
		pct = amount.Div(expected).Mul(hundred).Round(2)
	case !amount.IsZero():
		pct = hundred
	}
	return Deviation{Amount: amount, Percent: pct, Class: Classify(pct)}
}

// Classify buckets a deviation percentage: <= 1 normal, <= 5 warning, else critical.
func Classify(pct decimal.Decimal) model.DeviationClass {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return model.DeviationNormal
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return model.DeviationWarning
	default:
		return model.DeviationCritical
	}
}
