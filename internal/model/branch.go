package model

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is the tenant root. Branches belong to a restaurant; sales,
// products and users are scoped to a branch.
type Restaurant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Branch struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	Address      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
}
