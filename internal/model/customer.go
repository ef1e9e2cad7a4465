package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an optional reference on a sale. The engine only checks
// existence before committing a sale that names one.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Email     *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
