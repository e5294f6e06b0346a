package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus: "active" | "closed"
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// DeviationClass classifies the gap between declared and expected cash.
// normal: |pct| <= 1, warning: <= 5, critical: > 5
type DeviationClass string

const (
	DeviationNormal   DeviationClass = "normal"
	DeviationWarning  DeviationClass = "warning"
	DeviationCritical DeviationClass = "critical"
)

// CashSession is one drawer window. CurrentAmount is informational only;
// expected cash is always recomputed from the sales in the window.
// The Declared*/Deviation* fields are set only when a count was declared at close.
type CashSession struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	StartAmount    decimal.Decimal  `json:"startAmount"`
	CurrentAmount  decimal.Decimal  `json:"currentAmount"`
	TotalSales     decimal.Decimal  `json:"totalSales"`
	StartTime      time.Time        `json:"startTime"`
	EndTime        *time.Time       `json:"endTime,omitempty"`
	Status         SessionStatus    `json:"status"`
	DeclaredCash   *decimal.Decimal `json:"declaredCash,omitempty"`
	Deviation      *decimal.Decimal `json:"deviation,omitempty"`
	DeviationPct   *decimal.Decimal `json:"deviationPct,omitempty"`
	DeviationClass *DeviationClass  `json:"deviationClass,omitempty"`
}

func (s CashSession) IsActive() bool { return s.Status == SessionActive }
