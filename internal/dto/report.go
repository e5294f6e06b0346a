package dto

import (
	"time"

	"minimarket/internal/model"
	"minimarket/internal/report"
)

// ── Reports ──────────────────────────────────────────────────────────────────

type ReportQuery struct {
	Period string `form:"period"` // weekly | monthly | quarterly | yearly
	Range  string `form:"range"`  // today | week | month | all
	Top    int    `form:"top"`
	By     string `form:"by"` // quantity | profit | revenue
}

type ProfitReport struct {
	Totals  report.Totals         `json:"totals"`
	Series  []report.Point        `json:"series"`
	Top     []report.ProductStats `json:"top"`
	Bottom  []report.ProductStats `json:"bottom"`
	Period  report.Period         `json:"period"`
	Ranking report.RankBy         `json:"ranking"`
}

type SalesReport struct {
	Summary report.SalesSummary `json:"summary"`
	Range   report.DateRange    `json:"range"`
	Since   *time.Time          `json:"since,omitempty"`
}

type ProductsReport struct {
	Data []report.ProductStats `json:"data"`
}

// ── Alerts ───────────────────────────────────────────────────────────────────

type CreateAlertRequest struct {
	Type        model.AlertType `json:"type" validate:"required,oneof=expiration low_stock over_stock"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Message     string          `json:"message" validate:"required,max=300"`
	Severity    model.Severity  `json:"severity" validate:"required,oneof=low medium high"`
}

type AlertListResponse struct {
	Data   []model.Alert `json:"data"`
	Unread int           `json:"unread"`
}

// ── Audit ────────────────────────────────────────────────────────────────────

type AuditFilter struct {
	Search string `form:"search"`
	Entity string `form:"entity" validate:"omitempty,oneof=product sale user cash"`
	Date   string `form:"date"` // today | week | month | all
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type AuditListResponse struct {
	Data  []model.AuditEntry `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
