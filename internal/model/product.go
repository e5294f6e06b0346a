package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the in-memory catalog record. The Product Store owns it; the
// state container only keeps a synchronized copy.
// ExpirationDate is a calendar date (YYYY-MM-DD) when present.
type Product struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	Brand            string          `json:"brand"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	SalePrice        decimal.Decimal `json:"salePrice"`
	ProfitPercentage decimal.Decimal `json:"profitPercentage"`
	CurrentStock     int             `json:"currentStock"`
	MinStock         int             `json:"minStock"`
	MaxStock         int             `json:"maxStock"`
	ExpirationDate   *string         `json:"expirationDate,omitempty"`
	ImageURL         *string         `json:"imageUrl,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// DateLayout is the layout of Product.ExpirationDate.
const DateLayout = "2006-01-02"

// ProfitPercentage returns (sale - cost) / cost * 100 rounded to two decimals.
// A zero cost yields zero.
func ProfitPercentage(cost, sale decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return sale.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}

// Expiration parses ExpirationDate. ok is false when the product has no date
// or the stored value is not a valid calendar date.
func (p Product) Expiration() (t time.Time, ok bool) {
	if p.ExpirationDate == nil || *p.ExpirationDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, *p.ExpirationDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
