package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted on a sale.
const (
	PaymentCash  = "cash"
	PaymentCard  = "card"
	PaymentOther = "other"
)

// SaleTransaction is one completed purchase event. It is immutable once
// committed: the total and the per-line unit prices are snapshots taken at
// sale time and are never recomputed from the current catalog.
type SaleTransaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null"`
	// Metadata is an uninterpreted key/value bag supplied by the caller.
	// The engine stores it verbatim and never inspects its contents.
	Metadata  map[string]string `gorm:"serializer:json"`
	CreatedAt time.Time

	Lines    []SaleLine `gorm:"foreignKey:SaleTransactionID"`
	User     *User      `gorm:"foreignKey:UserID"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
}

// SaleLine is one cart line with the unit price frozen at sale time.
type SaleLine struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleTransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity          int             `gorm:"not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
