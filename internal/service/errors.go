package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain errors abort the whole write batch and carry enough detail for an
// actionable caller message. They are distinct from infrastructure errors
// (store unavailable, timeout), which are safe to retry because no partial
// state survives an aborted batch.

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMismatchedCart     = errors.New("product ids and quantities must match")
	ErrRegisterExists     = errors.New("user already has a cash register")
	ErrRegisterNotFound   = errors.New("cash register not found")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrNotCashSale        = errors.New("sale was not paid in cash")
	ErrSaleAlreadySettled = errors.New("sale already has a cash movement")
)

// ProductNotFoundError lists every requested id missing from the catalog —
// a cart is never partially processed.
type ProductNotFoundError struct {
	IDs []uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, id.String())
	}
	return "products not found: " + strings.Join(ids, ", ")
}

// InsufficientStockError is returned both by the pre-flight check and by
// the commit-time re-validation; callers cannot tell which stage caught it.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.ProductID, e.Requested)
}

type InsufficientPaymentError struct {
	Total    decimal.Decimal
	Tendered decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("amount tendered %s is less than total %s", e.Tendered, e.Total)
}

type CustomerNotFoundError struct {
	ID uuid.UUID
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %s not found", e.ID)
}

// IsDomainError reports whether err belongs to the domain taxonomy above.
// Anything else is treated as an infrastructure failure and must not leak
// detail to clients.
func IsDomainError(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrMismatchedCart),
		errors.Is(err, ErrRegisterExists),
		errors.Is(err, ErrRegisterNotFound),
		errors.Is(err, ErrSaleNotFound),
		errors.Is(err, ErrNotCashSale),
		errors.Is(err, ErrSaleAlreadySettled):
		return true
	}
	var pnf *ProductNotFoundError
	var ise *InsufficientStockError
	var ipe *InsufficientPaymentError
	var cnf *CustomerNotFoundError
	return errors.As(err, &pnf) || errors.As(err, &ise) || errors.As(err, &ipe) || errors.As(err, &cnf)
}
