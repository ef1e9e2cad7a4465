package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyClosing reconciles a register at end of period: expected cash from
// movements vs. the cash the operator actually counted. Created once,
// never mutated. Discrepancy = actual - expected and may be negative
// (shortage) or positive (overage); both are recorded, never rejected.
type DailyClosing struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashRegisterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null"`
	ClosingDate    time.Time       `gorm:"not null"`
	ExpectedCash   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ActualCash     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discrepancy    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes          *string
	CreatedAt      time.Time
}
