package dto

import (
	"minimarket/internal/drawer"
	"minimarket/internal/model"

	"github.com/shopspring/decimal"
)

// ── Cash sessions ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	OpeningAmount decimal.Decimal `json:"openingAmount"`
}

// CloseSessionRequest optionally carries a blind cash count.
type CloseSessionRequest struct {
	DeclaredCash *decimal.Decimal `json:"declaredCash"`
}

type MethodAmount struct {
	Method model.PaymentMethod `json:"method"`
	Label  string              `json:"label"`
	Amount decimal.Decimal     `json:"amount"`
}

// CashReport describes one session: live figures while active, the close
// summary once closed.
type CashReport struct {
	Session      model.CashSession `json:"session"`
	SalesCount   int               `json:"salesCount"`
	TotalSales   decimal.Decimal   `json:"totalSales"`
	ExpectedCash decimal.Decimal   `json:"expectedCash"`
	ByMethod     []MethodAmount    `json:"byMethod"`
	Duration     drawer.Duration   `json:"duration"`
	Deviation    *drawer.Deviation `json:"deviation,omitempty"`
}

type CashHistoryResponse struct {
	Data  []model.CashSession `json:"data"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
