package repository

import (
	"context"

	"github.com/elianismedina/restaurantposapi/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BranchRepository serves branch reference data. Branch lifecycle is owned
// elsewhere; the API only creates and lists.
type BranchRepository interface {
	Create(ctx context.Context, b *model.Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	List(ctx context.Context) ([]model.Branch, error)
}

type branchRepo struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) BranchRepository { return &branchRepo{db: db} }

func (r *branchRepo) Create(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *branchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).Preload("Restaurant").First(&b, id).Error
	return &b, err
}

func (r *branchRepo) List(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.WithContext(ctx).Preload("Restaurant").Order("name ASC").Find(&branches).Error
	return branches, err
}
