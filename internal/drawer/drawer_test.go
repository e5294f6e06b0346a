package drawer

import (
	"testing"
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sale(at time.Time, total string, m model.PaymentMethod) model.Sale {
	return model.Sale{CreatedAt: at, Total: dec(total), PaymentMethod: m}
}

func TestInSession_InclusiveBounds(t *testing.T) {
	end := t0.Add(2 * time.Hour)
	s := model.CashSession{StartTime: t0, EndTime: &end}

	assert.True(t, InSession(s, sale(t0, "1", model.PaymentCash), end))
	assert.True(t, InSession(s, sale(end, "1", model.PaymentCash), end))
	assert.False(t, InSession(s, sale(t0.Add(-time.Nanosecond), "1", model.PaymentCash), end))
	assert.False(t, InSession(s, sale(end.Add(time.Nanosecond), "1", model.PaymentCash), end.Add(time.Hour)))
}

func TestInSession_OpenUsesNow(t *testing.T) {
	s := model.CashSession{StartTime: t0}
	now := t0.Add(time.Hour)
	assert.True(t, InSession(s, sale(now, "1", model.PaymentCash), now))
	assert.False(t, InSession(s, sale(now.Add(time.Second), "1", model.PaymentCash), now))
}

func TestExpectedCash_OnlyCashMethod(t *testing.T) {
	s := model.CashSession{StartTime: t0, StartAmount: dec("50")}
	sales := []model.Sale{
		sale(t0.Add(time.Minute), "30.00", model.PaymentCash),
		sale(t0.Add(2*time.Minute), "20.00", model.PaymentCard),
		sale(t0.Add(-time.Minute), "99.00", model.PaymentCash),
	}
	now := t0.Add(time.Hour)

	assert.Equal(t, "80", ExpectedCash(s, sales, now).String())
	assert.Equal(t, "50", TotalSales(SessionSales(s, sales, now)).String())
}

func TestExpectedCash_NoSales(t *testing.T) {
	s := model.CashSession{StartTime: t0, StartAmount: dec("100.00")}
	assert.Equal(t, "100.00", ExpectedCash(s, nil, t0).StringFixed(2))
}

func TestByMethod(t *testing.T) {
	got := ByMethod([]model.Sale{
		sale(t0, "10", model.PaymentYape),
		sale(t0, "5", model.PaymentYape),
		sale(t0, "7", model.PaymentCash),
	})
	assert.Equal(t, "15", got[model.PaymentYape].String())
	assert.Equal(t, "7", got[model.PaymentCash].String())
	assert.True(t, got[model.PaymentPlin].IsZero())
	assert.Len(t, got, len(model.PaymentMethods))
}

func TestDuration_Text(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{3*time.Hour + 2*time.Minute + 1*time.Second, "3h 2m 1s"},
		{time.Hour, "1h 0m 0s"},
		{5*time.Minute + 9*time.Second, "5m 9s"},
		{42 * time.Second, "42s"},
		{0, "0s"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Split(tc.d).Text)
	}
}

func TestElapsed_ClosedAndOpen(t *testing.T) {
	end := t0.Add(90 * time.Minute)
	closed := model.CashSession{StartTime: t0, EndTime: &end}
	assert.Equal(t, "1h 30m 0s", Elapsed(closed, t0.Add(10*time.Hour)).Text)

	open := model.CashSession{StartTime: t0}
	d := Elapsed(open, t0.Add(75*time.Second))
	assert.Equal(t, 1, d.Minutes)
	assert.Equal(t, 15, d.Seconds)
	assert.Equal(t, int64(75), d.TotalSeconds)
}

func TestCompareCount(t *testing.T) {
	normal := CompareCount(dec("100.50"), dec("100"))
	assert.Equal(t, model.DeviationNormal, normal.Class)
	assert.Equal(t, "0.5", normal.Amount.String())

	warn := CompareCount(dec("96"), dec("100"))
	assert.Equal(t, model.DeviationWarning, warn.Class)
	assert.Equal(t, "-4", warn.Percent.String())

	crit := CompareCount(dec("80"), dec("100"))
	assert.Equal(t, model.DeviationCritical, crit.Class)

	assert.Equal(t, model.DeviationNormal, CompareCount(dec("0"), dec("0")).Class)
	assert.Equal(t, model.DeviationCritical, CompareCount(dec("5"), dec("0")).Class)
}
