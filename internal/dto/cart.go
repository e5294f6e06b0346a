package dto

import (
	"minimarket/internal/cart"

	"github.com/shopspring/decimal"
)

// ── Cart ─────────────────────────────────────────────────────────────────────

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutInfoRequest struct {
	PaymentMethod    string `json:"paymentMethod" validate:"omitempty,oneof=cash card transfer yape plin other"`
	OperationNumber  string `json:"operationNumber" validate:"max=60"`
	CustomerName     string `json:"customerName" validate:"max=200"`
	CustomerDocument string `json:"customerDocument" validate:"max=20"`
	CustomerEmail    string `json:"customerEmail" validate:"omitempty,email"`
}

type CartResponse struct {
	Lines    []cart.Line     `json:"lines"`
	Checkout cart.Checkout   `json:"checkout"`
	Total    decimal.Decimal `json:"total"`
	Items    int             `json:"items"`
}
