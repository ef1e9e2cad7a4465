package repository

import (
	"context"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx persists the sale and its lines inside the caller's transaction.
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.SaleTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SaleTransaction, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.SaleTransaction, int64, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]model.SaleTransaction, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.SaleTransaction) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SaleTransaction, error) {
	var s model.SaleTransaction
	err := r.db.WithContext(ctx).Preload("Lines.Product").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.SaleTransaction, int64, error) {
	var sales []model.SaleTransaction
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.SaleTransaction{})

	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Lines.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]model.SaleTransaction, error) {
	var sales []model.SaleTransaction
	err := r.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", from, to).
		Preload("Lines.Product").
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}
