package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is catalog data plus the live stock counter.
// Stock is never read-then-written from service code: every mutation goes
// through a guarded UPDATE so the stock >= 0 invariant holds under
// concurrent sales.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Branch *Branch `gorm:"foreignKey:BranchID"`
}
