// Package catalog is the boundary with the Product Store: the store contract,
// the snake_case wire row, realtime change events and catalog helpers.
package catalog

import (
	"time"

	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// Row is a products table row as it travels on the wire (snake_case).
// It doubles as the GORM model of the table.
type Row struct {
	ID               string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code             string          `gorm:"uniqueIndex;not null" json:"code"`
	Name             string          `gorm:"index;not null" json:"name"`
	Description      string          `json:"description"`
	Category         string          `gorm:"index" json:"category"`
	Brand            string          `json:"brand"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_price"`
	SalePrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
	ProfitPercentage decimal.Decimal `gorm:"type:decimal(8,2)" json:"profit_percentage"`
	CurrentStock     int             `gorm:"not null;default:0" json:"current_stock"`
	MinStock         int             `gorm:"not null;default:0" json:"min_stock"`
	MaxStock         int             `gorm:"not null;default:0" json:"max_stock"`
	ExpirationDate   *string         `gorm:"type:varchar(10)" json:"expiration_date"`
	ImageURL         *string         `json:"image_url"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Row) TableName() string { return "products" }

// ToRow translates a Product to its wire form. FromRow(ToRow(p)) == p.
func ToRow(p model.Product) Row {
	return Row{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		Brand:            p.Brand,
		CostPrice:        p.CostPrice,
		SalePrice:        p.SalePrice,
		ProfitPercentage: p.ProfitPercentage,
		CurrentStock:     p.CurrentStock,
		MinStock:         p.MinStock,
		MaxStock:         p.MaxStock,
		ExpirationDate:   p.ExpirationDate,
		ImageURL:         p.ImageURL,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// FromRow translates a wire row back to a Product.
func FromRow(r Row) model.Product {
	return model.Product{
		ID:               r.ID,
		Code:             r.Code,
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		Brand:            r.Brand,
		CostPrice:        r.CostPrice,
		SalePrice:        r.SalePrice,
		ProfitPercentage: r.ProfitPercentage,
		CurrentStock:     r.CurrentStock,
		MinStock:         r.MinStock,
		MaxStock:         r.MaxStock,
		ExpirationDate:   r.ExpirationDate,
		ImageURL:         r.ImageURL,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// FromRows maps a slice of rows, preserving order.
func FromRows(rows []Row) []model.Product {
	out := make([]model.Product, len(rows))
	for i, r := range rows {
		out[i] = FromRow(r)
	}
	return out
}
