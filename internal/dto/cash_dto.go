package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateRegisterRequest struct {
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
}

type RegisterResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// SettleSaleRequest settles an already-committed cash sale against the
// caller's register.
type SettleSaleRequest struct {
	SaleID         string          `json:"sale_id" validate:"required,uuid"`
	AmountTendered decimal.Decimal `json:"amount_tendered" validate:"required,gt=0"`
}

type CashMovementResponse struct {
	ID             string          `json:"id"`
	CashRegisterID string          `json:"cash_register_id"`
	SaleID         string          `json:"sale_id"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
	ChangeGiven    decimal.Decimal `json:"change_given"`
	CreatedAt      string          `json:"created_at"`
}

// DailyClosingRequest closes the caller's register. When From/To are
// omitted the period defaults to the calendar day of the call, local time.
type DailyClosingRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash" validate:"min=0"`
	Notes      *string         `json:"notes,omitempty"`
	From       *time.Time      `json:"from,omitempty"`
	To         *time.Time      `json:"to,omitempty"`
}

type DailyClosingResponse struct {
	ID             string          `json:"id"`
	CashRegisterID string          `json:"cash_register_id"`
	UserID         string          `json:"user_id"`
	ClosingDate    string          `json:"closing_date"`
	ExpectedCash   decimal.Decimal `json:"expected_cash"`
	ActualCash     decimal.Decimal `json:"actual_cash"`
	Discrepancy    decimal.Decimal `json:"discrepancy"`
	Notes          *string         `json:"notes,omitempty"`
}
