package dto

import (
	"github.com/shopspring/decimal"
)

// RegisterSaleRequest is the cart as the caller submits it: parallel
// id/quantity arrays plus payment info. Duplicate product ids are merged
// server-side before stock validation.
type RegisterSaleRequest struct {
	ProductIDs     []string          `json:"product_ids" validate:"required,dive,uuid"`
	Quantities     []int             `json:"quantities" validate:"required,dive,min=1"`
	PaymentMethod  string            `json:"payment_method" validate:"required,oneof=cash card other"`
	AmountTendered *decimal.Decimal  `json:"amount_tendered,omitempty"`
	CustomerID     *string           `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	BranchID      string             `json:"branch_id"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	Lines         []SaleLineResponse `json:"lines"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	ChangeGiven   *decimal.Decimal   `json:"change_given,omitempty"`
	CreatedAt     string             `json:"created_at"`
}

type SaleFilter struct {
	Date     string `form:"date"` // YYYY-MM-DD
	BranchID string `form:"branch_id"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type SalesReportRequest struct {
	From string `form:"from" validate:"required"`
	To   string `form:"to" validate:"required"`
}
