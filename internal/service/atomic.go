package service

import (
	"context"
	"errors"

	"github.com/elianismedina/restaurantposapi/internal/model"
	"github.com/elianismedina/restaurantposapi/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// StockDecrement is one pending conditional decrement in a draft.
type StockDecrement struct {
	ProductID uuid.UUID
	Quantity  int
}

// CashSettlement carries the cash figures for a draft's settlement step.
// BalanceDelta is tendered minus change — the net cash that stays in the
// drawer, which always equals the sale total.
type CashSettlement struct {
	AmountTendered decimal.Decimal
	ChangeGiven    decimal.Decimal
	BalanceDelta   decimal.Decimal
}

// SaleDraft is the write batch for one sale: the sale record, its N
// inventory decrements, and the optional cash settlement. The builder
// produces it without touching the store; the Coordinator executes it
// exactly once.
type SaleDraft struct {
	Sale       model.SaleTransaction
	Decrements []StockDecrement
	Cash       *CashSettlement // nil for non-cash sales
}

// Coordinator executes a SaleDraft as a single all-or-nothing database
// transaction. Conditional writes (stock decrement, register creation)
// re-validate their precondition under the transaction, so a concurrent
// batch that exhausted stock is caught here even after the builder's
// pre-flight check passed — surfaced as the same domain error.
type Coordinator struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	registers repository.RegisterRepository
}

func NewCoordinator(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	registers repository.RegisterRepository,
) *Coordinator {
	return &Coordinator{sales: sales, products: products, registers: registers}
}

// Commit applies the draft. On any error the whole batch rolls back and
// the store contains neither the sale, nor the decrements, nor the cash
// movement.
func (c *Coordinator) Commit(ctx context.Context, draft *SaleDraft) (*model.SaleTransaction, error) {
	sale := draft.Sale

	err := runTx(ctx, c.sales.DB(), func(tx *gorm.DB) error {
		for _, d := range draft.Decrements {
			n, err := c.products.DecrementStockTx(tx, d.ProductID, d.Quantity)
			if err != nil {
				return err
			}
			if n == 0 {
				return &InsufficientStockError{ProductID: d.ProductID, Requested: d.Quantity}
			}
		}

		if err := c.sales.CreateTx(ctx, tx, &sale); err != nil {
			return err
		}

		if draft.Cash != nil {
			reg, err := getOrCreateRegisterTx(tx, c.registers, sale.UserID)
			if err != nil {
				return err
			}
			movement := &model.CashMovement{
				CashRegisterID:    reg.ID,
				SaleTransactionID: sale.ID,
				AmountTendered:    draft.Cash.AmountTendered,
				ChangeGiven:       draft.Cash.ChangeGiven,
			}
			if err := c.registers.CreateMovementTx(tx, movement); err != nil {
				return err
			}
			if _, err := c.registers.AddBalanceTx(tx, reg.ID, draft.Cash.BalanceDelta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// getOrCreateRegisterTx resolves the payer's register inside the batch.
// Policy (deliberate, see DESIGN.md): a cash sale auto-provisions a
// zero-balance register rather than failing with RegisterRequired. The
// insert uses ON CONFLICT DO NOTHING, so losing a create race leaves the
// register's ID empty and we re-read the winner's row.
func getOrCreateRegisterTx(tx *gorm.DB, registers repository.RegisterRepository, userID uuid.UUID) (*model.CashRegister, error) {
	reg, err := registers.FindByUserTx(tx, userID)
	if err == nil {
		return reg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	reg = &model.CashRegister{UserID: userID, Balance: decimal.Zero}
	if err := registers.CreateTx(tx, reg); err != nil {
		return nil, err
	}
	if reg.ID == uuid.Nil {
		return registers.FindByUserTx(tx, userID)
	}
	return reg, nil
}
