package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// KardexType: "entry" | "exit" | "adjustment"
type KardexType string

const (
	KardexEntryType      KardexType = "entry"
	KardexExit           KardexType = "exit"
	KardexAdjustmentType KardexType = "adjustment"
)

// KardexEntry is an append-only inventory ledger line valued at cost.
type KardexEntry struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Type      KardexType      `json:"type"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Reason    string          `json:"reason"`
	Reference *string         `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}
