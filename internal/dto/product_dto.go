package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"min=0"`
	Stock       int             `json:"stock" validate:"min=0"`
	BranchID    string          `json:"branch_id" validate:"required,uuid"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	BranchID    string          `json:"branch_id"`
	Active      bool            `json:"active"`
}

type ProductFilter struct {
	Name     string `form:"name"`
	BranchID string `form:"branch_id"`
	Active   string `form:"active"` // "false" | "all" | "" (active only)
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse is the payload of the public cached price endpoint.
type PriceCheckResponse struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}
