package repository

import (
	"context"

	"github.com/elianismedina/restaurantposapi/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClosingRepository interface {
	// CreateTx persists the closing inside the caller's transaction —
	// closings are always written in the same batch as the register reset.
	CreateTx(tx *gorm.DB, c *model.DailyClosing) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DailyClosing, error)
	ListByRegister(ctx context.Context, registerID uuid.UUID) ([]model.DailyClosing, error)
}

type closingRepo struct{ db *gorm.DB }

func NewClosingRepository(db *gorm.DB) ClosingRepository { return &closingRepo{db: db} }

func (r *closingRepo) CreateTx(tx *gorm.DB, c *model.DailyClosing) error {
	return tx.Create(c).Error
}

func (r *closingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DailyClosing, error) {
	var c model.DailyClosing
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *closingRepo) ListByRegister(ctx context.Context, registerID uuid.UUID) ([]model.DailyClosing, error) {
	var closings []model.DailyClosing
	err := r.db.WithContext(ctx).
		Where("cash_register_id = ?", registerID).
		Order("closing_date DESC").
		Find(&closings).Error
	return closings, err
}
