package tests

import (
	"context"
	"testing"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/model"
	"github.com/elianismedina/restaurantposapi/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cashFixture struct {
	svc       service.CashService
	registers *stubRegisterRepo
	closings  *stubClosingRepo
	sales     *stubSaleRepo
	users     *stubUserRepo
}

func buildCashSvc() *cashFixture {
	registers := newStubRegisterRepo()
	closings := &stubClosingRepo{}
	sales := newStubSaleRepo()
	users := newStubUserRepo()
	return &cashFixture{
		svc:       service.NewCashService(registers, closings, sales, users, nil),
		registers: registers,
		closings:  closings,
		sales:     sales,
		users:     users,
	}
}

func (f *cashFixture) seedCashSale(total float64) *model.SaleTransaction {
	s := &model.SaleTransaction{
		UserID:        uuid.New(),
		BranchID:      uuid.New(),
		Total:         dec(total),
		PaymentMethod: model.PaymentCash,
	}
	_ = f.sales.CreateTx(context.Background(), nil, s)
	return s
}

func TestSettle(t *testing.T) {
	st := service.Settle(dec(100), dec(150))
	assert.True(t, st.ChangeGiven.Equal(dec(50)))
	assert.True(t, st.BalanceDelta.Equal(dec(100)), "drawer keeps tendered minus change")

	exact := service.Settle(dec(75), dec(75))
	assert.True(t, exact.ChangeGiven.IsZero())
	assert.True(t, exact.BalanceDelta.Equal(dec(75)))
}

func TestCreateRegister(t *testing.T) {
	f := buildCashSvc()
	userID := uuid.New()

	initial := dec(500)
	resp, err := f.svc.CreateRegister(context.Background(), userID, dto.CreateRegisterRequest{InitialBalance: &initial})
	require.NoError(t, err)
	assert.True(t, resp.Balance.Equal(dec(500)))
	assert.Equal(t, userID.String(), resp.UserID)

	_, err = f.svc.CreateRegister(context.Background(), userID, dto.CreateRegisterRequest{})
	assert.ErrorIs(t, err, service.ErrRegisterExists)
}

func TestGetRegister_NotFound(t *testing.T) {
	f := buildCashSvc()
	_, err := f.svc.GetRegister(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrRegisterNotFound)
}

func TestSettleSale_HappyPathAutoProvisionsRegister(t *testing.T) {
	f := buildCashSvc()
	sale := f.seedCashSale(200)
	userID := uuid.New()

	resp, err := f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
		SaleID:         sale.ID.String(),
		AmountTendered: dec(250),
	})
	require.NoError(t, err)
	assert.True(t, resp.AmountTendered.Equal(dec(250)))
	assert.True(t, resp.ChangeGiven.Equal(dec(50)))
	assert.Equal(t, sale.ID.String(), resp.SaleID)

	reg, err := f.registers.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, reg.Balance.Equal(dec(200)))
}

func TestSettleSale_Errors(t *testing.T) {
	f := buildCashSvc()
	userID := uuid.New()

	_, err := f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
		SaleID: "garbage", AmountTendered: dec(10),
	})
	assert.ErrorIs(t, err, service.ErrSaleNotFound)

	_, err = f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
		SaleID: uuid.New().String(), AmountTendered: dec(10),
	})
	assert.ErrorIs(t, err, service.ErrSaleNotFound)

	card := &model.SaleTransaction{UserID: uuid.New(), BranchID: uuid.New(), Total: dec(50), PaymentMethod: model.PaymentCard}
	require.NoError(t, f.sales.CreateTx(context.Background(), nil, card))
	_, err = f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
		SaleID: card.ID.String(), AmountTendered: dec(50),
	})
	assert.ErrorIs(t, err, service.ErrNotCashSale)

	short := f.seedCashSale(100)
	_, err = f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
		SaleID: short.ID.String(), AmountTendered: dec(80),
	})
	var payErr *service.InsufficientPaymentError
	assert.ErrorAs(t, err, &payErr)
}

func TestSettleSale_AlreadySettled(t *testing.T) {
	f := buildCashSvc()
	sale := f.seedCashSale(60)
	userID := uuid.New()

	_, err := f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
		SaleID: sale.ID.String(), AmountTendered: dec(60),
	})
	require.NoError(t, err)

	_, err = f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
		SaleID: sale.ID.String(), AmountTendered: dec(60),
	})
	assert.ErrorIs(t, err, service.ErrSaleAlreadySettled)
	assert.Len(t, f.registers.movements, 1)
}

func settleTimes(t *testing.T, f *cashFixture, userID uuid.UUID, totals ...float64) {
	t.Helper()
	for _, total := range totals {
		sale := f.seedCashSale(total)
		_, err := f.svc.SettleSale(context.Background(), userID, dto.SettleSaleRequest{
			SaleID: sale.ID.String(), AmountTendered: dec(total),
		})
		require.NoError(t, err)
	}
}

func TestCloseDay_ShortageAndReset(t *testing.T) {
	f := buildCashSvc()
	userID := uuid.New()
	settleTimes(t, f, userID, 150, 150, 150) // expected 450

	resp, err := f.svc.CloseDay(context.Background(), userID, dto.DailyClosingRequest{ActualCash: dec(440)})
	require.NoError(t, err)
	assert.True(t, resp.ExpectedCash.Equal(dec(450)), "expected %s", resp.ExpectedCash)
	assert.True(t, resp.ActualCash.Equal(dec(440)))
	assert.True(t, resp.Discrepancy.Equal(dec(-10)), "shortage is negative")

	reg, err := f.registers.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, reg.Balance.IsZero(), "closing resets the drawer")
	assert.Len(t, f.closings.closings, 1)
}

func TestCloseDay_Overage(t *testing.T) {
	f := buildCashSvc()
	userID := uuid.New()
	settleTimes(t, f, userID, 200)

	resp, err := f.svc.CloseDay(context.Background(), userID, dto.DailyClosingRequest{ActualCash: dec(215)})
	require.NoError(t, err)
	assert.True(t, resp.Discrepancy.Equal(dec(15)))
}

func TestCloseDay_ExplicitPeriodFiltersMovements(t *testing.T) {
	f := buildCashSvc()
	userID := uuid.New()
	settleTimes(t, f, userID, 100)

	reg, err := f.registers.FindByUser(context.Background(), userID)
	require.NoError(t, err)

	// stale movement from a week ago, outside the requested window
	require.NoError(t, f.registers.CreateMovementTx(nil, &model.CashMovement{
		CashRegisterID:    reg.ID,
		SaleTransactionID: uuid.New(),
		AmountTendered:    dec(999),
		ChangeGiven:       decimal.Zero,
		CreatedAt:         time.Now().AddDate(0, 0, -7),
	}))

	from := time.Now().Add(-1 * time.Hour)
	to := time.Now().Add(time.Hour)
	resp, err := f.svc.CloseDay(context.Background(), userID, dto.DailyClosingRequest{
		ActualCash: dec(100), From: &from, To: &to,
	})
	require.NoError(t, err)
	assert.True(t, resp.ExpectedCash.Equal(dec(100)))
	assert.True(t, resp.Discrepancy.IsZero())
}

func TestCloseDay_NoRegister(t *testing.T) {
	f := buildCashSvc()
	_, err := f.svc.CloseDay(context.Background(), uuid.New(), dto.DailyClosingRequest{ActualCash: decimal.Zero})
	assert.ErrorIs(t, err, service.ErrRegisterNotFound)
}

func TestCloseDay_EmptyPeriod(t *testing.T) {
	f := buildCashSvc()
	userID := uuid.New()
	_, err := f.svc.CreateRegister(context.Background(), userID, dto.CreateRegisterRequest{})
	require.NoError(t, err)

	resp, err := f.svc.CloseDay(context.Background(), userID, dto.DailyClosingRequest{ActualCash: decimal.Zero})
	require.NoError(t, err)
	assert.True(t, resp.ExpectedCash.IsZero())
	assert.True(t, resp.Discrepancy.IsZero())
}

func TestListClosings(t *testing.T) {
	f := buildCashSvc()
	userID := uuid.New()
	settleTimes(t, f, userID, 80)

	_, err := f.svc.CloseDay(context.Background(), userID, dto.DailyClosingRequest{ActualCash: dec(80)})
	require.NoError(t, err)
	_, err = f.svc.CloseDay(context.Background(), userID, dto.DailyClosingRequest{ActualCash: decimal.Zero})
	require.NoError(t, err)

	items, err := f.svc.ListClosings(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = f.svc.ListClosings(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrRegisterNotFound)
}
