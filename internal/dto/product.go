package dto

import (
	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// ── Products ─────────────────────────────────────────────────────────────────

// ProductRequest is used for both create and full update.
type ProductRequest struct {
	Code           string          `json:"code" validate:"required,max=50"`
	Name           string          `json:"name" validate:"required,max=200"`
	Description    string          `json:"description" validate:"max=500"`
	Category       string          `json:"category" validate:"max=100"`
	Brand          string          `json:"brand" validate:"max=100"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SalePrice      decimal.Decimal `json:"salePrice"`
	CurrentStock   int             `json:"currentStock" validate:"gte=0"`
	MinStock       int             `json:"minStock" validate:"gte=0"`
	MaxStock       int             `json:"maxStock" validate:"gte=0"`
	ExpirationDate *string         `json:"expirationDate"`
	ImageURL       *string         `json:"imageUrl" validate:"omitempty,url"`
}

type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Sort     string `form:"sort"` // "name" or "" (newest first)
}

type ProductListResponse struct {
	Data       []model.Product `json:"data"`
	Total      int             `json:"total"`
	Categories []string        `json:"categories"`
}

type KardexResponse struct {
	ProductID string              `json:"productId"`
	Entries   []model.KardexEntry `json:"entries"`
}
