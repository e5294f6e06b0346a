package model

import "time"

// AuditAction: "create" | "update" | "delete" | "login" | "logout" | "open" | "close" | "sale"
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditLogin  AuditAction = "login"
	AuditLogout AuditAction = "logout"
	AuditOpen   AuditAction = "open"
	AuditClose  AuditAction = "close"
	AuditSale   AuditAction = "sale"
)

// AuditEntity: "product" | "sale" | "user" | "cash"
type AuditEntity string

const (
	EntityProduct AuditEntity = "product"
	EntitySale    AuditEntity = "sale"
	EntityUser    AuditEntity = "user"
	EntityCash    AuditEntity = "cash"
)

// AuditEntry is an append-only record of who did what. OldValue and NewValue
// hold JSON documents.
type AuditEntry struct {
	ID        string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Timestamp time.Time   `gorm:"index;not null" json:"timestamp"`
	UserID    string      `gorm:"type:varchar(36);index" json:"userId"`
	Username  string      `gorm:"type:varchar(60)" json:"username"`
	Action    AuditAction `gorm:"type:varchar(20);not null" json:"action"`
	Entity    AuditEntity `gorm:"type:varchar(20);index;not null" json:"entity"`
	EntityID  string      `gorm:"type:varchar(60)" json:"entityId"`
	Details   string      `json:"details"`
	OldValue  *string     `json:"oldValue,omitempty"`
	NewValue  *string     `json:"newValue,omitempty"`
}

func (AuditEntry) TableName() string { return "audit_log" }
