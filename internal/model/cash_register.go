package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegister is the per-user cash-on-hand accumulator. One register per
// user, enforced with a unique index and again by the DB constraint.
// Balance is mutated only through increment expressions inside a
// transaction, never via read-modify-write.
type CashRegister struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Movements []CashMovement `gorm:"foreignKey:CashRegisterID"`
}

// CashMovement is the cash settlement record for exactly one sale paid in
// cash. Movements are immutable and never deleted; a closing reads them,
// it does not consume them. AmountTendered >= the sale total, so
// ChangeGiven is never negative.
type CashMovement struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashRegisterID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleTransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AmountTendered    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChangeGiven       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt         time.Time

	Sale *SaleTransaction `gorm:"foreignKey:SaleTransactionID"`
}
