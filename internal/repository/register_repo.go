package repository

import (
	"context"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegisterRepository interface {
	Create(ctx context.Context, r *model.CashRegister) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*model.CashRegister, error)
	FindByUserTx(tx *gorm.DB, userID uuid.UUID) (*model.CashRegister, error)

	// CreateTx inserts the register inside the caller's transaction with
	// ON CONFLICT (user_id) DO NOTHING, so losing a concurrent create race
	// does not abort the surrounding batch. When the insert is skipped the
	// register's ID stays uuid.Nil and the caller must re-read.
	CreateTx(tx *gorm.DB, r *model.CashRegister) error

	// AddBalanceTx applies balance = balance + delta inside the caller's
	// transaction and reports the rows updated (0 = register gone).
	AddBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (int64, error)
	ResetBalanceTx(tx *gorm.DB, id uuid.UUID) error

	CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error
	FindMovementBySale(ctx context.Context, saleID uuid.UUID) (*model.CashMovement, error)
	ListMovements(ctx context.Context, registerID uuid.UUID) ([]model.CashMovement, error)
	// SumMovements totals amount_tendered - change_given over the
	// register's movements created within [from, to].
	SumMovements(ctx context.Context, registerID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	DB() *gorm.DB
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) DB() *gorm.DB { return r.db }

func (r *registerRepo) Create(ctx context.Context, reg *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registerRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&reg).Error
	return &reg, err
}

func (r *registerRepo) FindByUserTx(tx *gorm.DB, userID uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := tx.Where("user_id = ?", userID).First(&reg).Error
	return &reg, err
}

func (r *registerRepo) CreateTx(tx *gorm.DB, reg *model.CashRegister) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(reg).Error
}

func (r *registerRepo) AddBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (int64, error) {
	res := tx.Model(&model.CashRegister{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *registerRepo) ResetBalanceTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.CashRegister{}).
		Where("id = ?", id).
		Update("balance", decimal.Zero).Error
}

func (r *registerRepo) CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *registerRepo) FindMovementBySale(ctx context.Context, saleID uuid.UUID) (*model.CashMovement, error) {
	var m model.CashMovement
	err := r.db.WithContext(ctx).Where("sale_transaction_id = ?", saleID).First(&m).Error
	return &m, err
}

func (r *registerRepo) ListMovements(ctx context.Context, registerID uuid.UUID) ([]model.CashMovement, error) {
	var movements []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_register_id = ?", registerID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *registerRepo) SumMovements(ctx context.Context, registerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Where("cash_register_id = ? AND created_at BETWEEN ? AND ?", registerID, from, to).
		Select("COALESCE(SUM(amount_tendered - change_given), 0)").
		Scan(&total).Error
	return total, err
}
