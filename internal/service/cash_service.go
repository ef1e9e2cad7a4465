package service

import (
	"context"
	"errors"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/model"
	"github.com/elianismedina/restaurantposapi/internal/repository"
	"github.com/elianismedina/restaurantposapi/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashService interface {
	CreateRegister(ctx context.Context, userID uuid.UUID, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error)
	GetRegister(ctx context.Context, userID uuid.UUID) (*dto.RegisterResponse, error)
	SettleSale(ctx context.Context, userID uuid.UUID, req dto.SettleSaleRequest) (*dto.CashMovementResponse, error)
	CloseDay(ctx context.Context, userID uuid.UUID, req dto.DailyClosingRequest) (*dto.DailyClosingResponse, error)
	ListClosings(ctx context.Context, userID uuid.UUID) ([]dto.DailyClosingResponse, error)
}

type cashService struct {
	registers  repository.RegisterRepository
	closings   repository.ClosingRepository
	sales      repository.SaleRepository
	users      repository.UserRepository
	dispatcher *worker.Dispatcher
}

func NewCashService(
	registers repository.RegisterRepository,
	closings repository.ClosingRepository,
	sales repository.SaleRepository,
	users repository.UserRepository,
	dispatcher *worker.Dispatcher,
) CashService {
	return &cashService{
		registers:  registers,
		closings:   closings,
		sales:      sales,
		users:      users,
		dispatcher: dispatcher,
	}
}

// Settle computes the figures for settling a cash sale. The register keeps
// the net cash in the drawer — tendered minus change — which by
// construction equals the sale total.
func Settle(saleTotal, amountTendered decimal.Decimal) CashSettlement {
	change := amountTendered.Sub(saleTotal)
	return CashSettlement{
		AmountTendered: amountTendered,
		ChangeGiven:    change,
		BalanceDelta:   amountTendered.Sub(change),
	}
}

// ── Register management ───────────────────────────────────────────────────────

func (s *cashService) CreateRegister(ctx context.Context, userID uuid.UUID, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := s.registers.FindByUser(ctx, userID); err == nil {
		return nil, ErrRegisterExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}
	reg := &model.CashRegister{UserID: userID, Balance: balance}
	if err := s.registers.Create(ctx, reg); err != nil {
		return nil, err
	}
	return registerToResponse(reg), nil
}

func (s *cashService) GetRegister(ctx context.Context, userID uuid.UUID) (*dto.RegisterResponse, error) {
	reg, err := s.registers.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegisterNotFound
		}
		return nil, err
	}
	return registerToResponse(reg), nil
}

// ── SettleSale ────────────────────────────────────────────────────────────────
// Settles an already-committed cash sale against the caller's register:
// validates the sale, enforces the 1:1 sale↔movement link, and applies
// movement + balance increment in one transaction. The register is
// auto-provisioned at zero balance when absent, same policy as the sale path.

func (s *cashService) SettleSale(ctx context.Context, userID uuid.UUID, req dto.SettleSaleRequest) (*dto.CashMovementResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	if sale.PaymentMethod != model.PaymentCash {
		return nil, ErrNotCashSale
	}
	if _, err := s.registers.FindMovementBySale(ctx, saleID); err == nil {
		return nil, ErrSaleAlreadySettled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if req.AmountTendered.LessThan(sale.Total) {
		return nil, &InsufficientPaymentError{Total: sale.Total, Tendered: req.AmountTendered}
	}

	settlement := Settle(sale.Total, req.AmountTendered)

	var movement model.CashMovement
	txErr := runTx(ctx, s.registers.DB(), func(tx *gorm.DB) error {
		reg, err := getOrCreateRegisterTx(tx, s.registers, userID)
		if err != nil {
			return err
		}
		movement = model.CashMovement{
			CashRegisterID:    reg.ID,
			SaleTransactionID: saleID,
			AmountTendered:    settlement.AmountTendered,
			ChangeGiven:       settlement.ChangeGiven,
		}
		if err := s.registers.CreateMovementTx(tx, &movement); err != nil {
			return err
		}
		_, err = s.registers.AddBalanceTx(tx, reg.ID, settlement.BalanceDelta)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CashMovementResponse{
		ID:             movement.ID.String(),
		CashRegisterID: movement.CashRegisterID.String(),
		SaleID:         saleID.String(),
		AmountTendered: movement.AmountTendered,
		ChangeGiven:    movement.ChangeGiven,
		CreatedAt:      movement.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// ── CloseDay ──────────────────────────────────────────────────────────────────
// Reconciles the caller's register: expected cash from the period's
// movements vs. the counted amount. Persisting the closing and resetting
// the balance happen in one batch; the reset is unconditional — a closing
// always starts a fresh accounting period, whatever the discrepancy.
// Resetting to zero (not to actualCash) mirrors the recorded behavior and
// keeps carried-over cash out of the next period's expected sum.

func (s *cashService) CloseDay(ctx context.Context, userID uuid.UUID, req dto.DailyClosingRequest) (*dto.DailyClosingResponse, error) {
	reg, err := s.registers.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegisterNotFound
		}
		return nil, err
	}

	from, to := closingPeriod(req)
	expected, err := s.registers.SumMovements(ctx, reg.ID, from, to)
	if err != nil {
		return nil, err
	}

	closing := model.DailyClosing{
		CashRegisterID: reg.ID,
		UserID:         userID,
		ClosingDate:    time.Now(),
		ExpectedCash:   expected,
		ActualCash:     req.ActualCash,
		Discrepancy:    req.ActualCash.Sub(expected),
		Notes:          req.Notes,
	}

	txErr := runTx(ctx, s.registers.DB(), func(tx *gorm.DB) error {
		if err := s.closings.CreateTx(tx, &closing); err != nil {
			return err
		}
		return s.registers.ResetBalanceTx(tx, reg.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Report delivery is best-effort and never affects the committed closing.
	if s.dispatcher != nil {
		if user, err := s.users.FindByID(ctx, userID); err == nil && user.Email != nil {
			_ = s.dispatcher.EnqueueClosingReport(ctx, worker.ClosingReportPayload{
				ClosingID:    closing.ID.String(),
				RegisterID:   reg.ID.String(),
				ToEmail:      *user.Email,
				ClosingDate:  closing.ClosingDate.Format("2006-01-02"),
				ExpectedCash: closing.ExpectedCash.String(),
				ActualCash:   closing.ActualCash.String(),
				Discrepancy:  closing.Discrepancy.String(),
			})
		}
	}

	return closingToResponse(&closing), nil
}

func (s *cashService) ListClosings(ctx context.Context, userID uuid.UUID) ([]dto.DailyClosingResponse, error) {
	reg, err := s.registers.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegisterNotFound
		}
		return nil, err
	}
	closings, err := s.closings.ListByRegister(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DailyClosingResponse, 0, len(closings))
	for i := range closings {
		items = append(items, *closingToResponse(&closings[i]))
	}
	return items, nil
}

// closingPeriod resolves the covered period: an explicit from/to pair wins,
// otherwise the calendar day of the call in local time.
func closingPeriod(req dto.DailyClosingRequest) (time.Time, time.Time) {
	if req.From != nil && req.To != nil {
		return *req.From, *req.To
	}
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(24*time.Hour - time.Millisecond)
	return from, to
}

func registerToResponse(r *model.CashRegister) *dto.RegisterResponse {
	return &dto.RegisterResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Balance:   r.Balance,
		CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: r.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func closingToResponse(c *model.DailyClosing) *dto.DailyClosingResponse {
	return &dto.DailyClosingResponse{
		ID:             c.ID.String(),
		CashRegisterID: c.CashRegisterID.String(),
		UserID:         c.UserID.String(),
		ClosingDate:    c.ClosingDate.Format("2006-01-02T15:04:05Z"),
		ExpectedCash:   c.ExpectedCash,
		ActualCash:     c.ActualCash,
		Discrepancy:    c.Discrepancy,
		Notes:          c.Notes,
	}
}
