package dto

import (
	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// ── Sales ────────────────────────────────────────────────────────────────────

// SaleLine is one cart line. Name and price are optional snapshots; when
// missing the live product values are used.
type SaleLine struct {
	ProductID   string           `json:"productId" validate:"required"`
	ProductName string           `json:"productName"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
}

// ProcessSaleRequest is not validated for a non-empty item list: an empty
// cart is a precondition failure reported in order with the others.
type ProcessSaleRequest struct {
	Items            []SaleLine `json:"items" validate:"dive"`
	PaymentMethod    string     `json:"paymentMethod"`
	OperationNumber  string     `json:"operationNumber" validate:"max=60"`
	CustomerName     string     `json:"customerName" validate:"max=200"`
	CustomerDocument string     `json:"customerDocument" validate:"max=20"`
	CustomerEmail    string     `json:"customerEmail" validate:"omitempty,email"`
}

type SaleFilter struct {
	Search        string `form:"search"`
	Date          string `form:"date"` // today | week | month | all
	PaymentMethod string `form:"payment_method"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

type SaleListResponse struct {
	Data        []model.Sale    `json:"data"`
	Total       int             `json:"total"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Page        int             `json:"page"`
	Limit       int             `json:"limit"`
}
