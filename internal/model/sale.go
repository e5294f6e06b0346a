package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod: "cash" | "card" | "transfer" | "yape" | "plin" | "other"
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentYape     PaymentMethod = "yape"
	PaymentPlin     PaymentMethod = "plin"
	PaymentOther    PaymentMethod = "other"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCard, PaymentTransfer, PaymentYape, PaymentPlin, PaymentOther,
}

func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// Label is the Spanish name printed on receipts and reports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Efectivo"
	case PaymentCard:
		return "Tarjeta"
	case PaymentTransfer:
		return "Transferencia"
	case PaymentYape:
		return "Yape"
	case PaymentPlin:
		return "Plin"
	default:
		return "Otro"
	}
}

// SaleStatus: "pending" | "completed" | "cancelled". Only completed is produced.
type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

// SaleItem is a snapshot of a product at sale time. It never follows later
// changes to the product record.
type SaleItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// Sale is immutable once created.
type Sale struct {
	ID               string          `json:"id"`
	SaleNumber       string          `json:"saleNumber"`
	Items            []SaleItem      `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	OperationNumber  *string         `json:"operationNumber,omitempty"`
	CustomerName     *string         `json:"customerName,omitempty"`
	CustomerDocument *string         `json:"customerDocument,omitempty"`
	CustomerEmail    *string         `json:"customerEmail,omitempty"`
	Status           SaleStatus      `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}
