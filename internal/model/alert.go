package model

import "time"

// AlertType: "expiration" | "low_stock" | "over_stock"
type AlertType string

const (
	AlertExpiration AlertType = "expiration"
	AlertLowStock   AlertType = "low_stock"
	AlertOverStock  AlertType = "over_stock"
)

// Severity: "low" | "medium" | "high"
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Message     string    `json:"message"`
	Severity    Severity  `json:"severity"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}
