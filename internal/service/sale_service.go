package service

import (
	"context"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/model"
	"github.com/elianismedina/restaurantposapi/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleService interface {
	RegisterSale(ctx context.Context, userID, branchID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	SalesReport(ctx context.Context, from, to time.Time) ([]dto.SaleResponse, error)
}

type saleService struct {
	sales       repository.SaleRepository
	products    repository.ProductRepository
	customers   repository.CustomerRepository
	coordinator *Coordinator
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	coordinator *Coordinator,
) SaleService {
	return &saleService{
		sales:       sales,
		products:    products,
		customers:   customers,
		coordinator: coordinator,
	}
}

// ── RegisterSale ──────────────────────────────────────────────────────────────
// Two phases:
//   1. Build: resolve the cart against catalog and customer collaborators,
//      snapshot prices, compute totals and change — no writes.
//   2. Commit: hand the draft to the Coordinator, which applies sale +
//      decrements + settlement as one transaction with commit-time
//      re-validation of every conditional write.

func (s *saleService) RegisterSale(ctx context.Context, userID, branchID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	draft, names, err := s.buildDraft(ctx, userID, branchID, req)
	if err != nil {
		return nil, err
	}

	sale, err := s.coordinator.Commit(ctx, draft)
	if err != nil {
		return nil, err
	}

	resp := saleToResponse(sale)
	if draft.Cash != nil {
		change := draft.Cash.ChangeGiven
		resp.ChangeGiven = &change
	}
	for i := range resp.Lines {
		resp.Lines[i].Product = names[sale.Lines[i].ProductID]
	}
	return resp, nil
}

// cartLine is a merged cart entry: duplicate product ids are summed before
// stock validation, preserving first-seen order.
type cartLine struct {
	productID uuid.UUID
	quantity  int
}

func mergeCart(req dto.RegisterSaleRequest) ([]cartLine, error) {
	if len(req.ProductIDs) != len(req.Quantities) {
		return nil, ErrMismatchedCart
	}
	if len(req.ProductIDs) == 0 {
		return nil, ErrEmptyCart
	}

	index := make(map[uuid.UUID]int, len(req.ProductIDs))
	lines := make([]cartLine, 0, len(req.ProductIDs))
	for i, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrMismatchedCart
		}
		if pos, seen := index[id]; seen {
			lines[pos].quantity += req.Quantities[i]
			continue
		}
		index[id] = len(lines)
		lines = append(lines, cartLine{productID: id, quantity: req.Quantities[i]})
	}
	return lines, nil
}

func (s *saleService) buildDraft(ctx context.Context, userID, branchID uuid.UUID, req dto.RegisterSaleRequest) (*SaleDraft, map[uuid.UUID]string, error) {
	lines, err := mergeCart(req)
	if err != nil {
		return nil, nil, err
	}

	// One read for the whole cart; missing ids are reported together.
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.productID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	if len(byID) < len(lines) {
		missing := make([]uuid.UUID, 0)
		for _, l := range lines {
			if _, ok := byID[l.productID]; !ok {
				missing = append(missing, l.productID)
			}
		}
		return nil, nil, &ProductNotFoundError{IDs: missing}
	}

	// Pre-flight stock check and price snapshot. The same insufficient-stock
	// error can still surface at commit if a concurrent sale wins the race.
	total := decimal.Zero
	names := make(map[uuid.UUID]string, len(lines))
	saleLines := make([]model.SaleLine, 0, len(lines))
	decrements := make([]StockDecrement, 0, len(lines))
	for _, l := range lines {
		p := byID[l.productID]
		if p.Stock < l.quantity {
			return nil, nil, &InsufficientStockError{ProductID: l.productID, Requested: l.quantity}
		}
		names[p.ID] = p.Name
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.quantity))))
		saleLines = append(saleLines, model.SaleLine{
			ProductID: l.productID,
			Quantity:  l.quantity,
			UnitPrice: p.Price,
		})
		decrements = append(decrements, StockDecrement{ProductID: l.productID, Quantity: l.quantity})
	}

	var settlement *CashSettlement
	if req.PaymentMethod == model.PaymentCash {
		if req.AmountTendered == nil || req.AmountTendered.LessThan(total) {
			tendered := decimal.Zero
			if req.AmountTendered != nil {
				tendered = *req.AmountTendered
			}
			return nil, nil, &InsufficientPaymentError{Total: total, Tendered: tendered}
		}
		st := Settle(total, *req.AmountTendered)
		settlement = &st
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, nil, &CustomerNotFoundError{}
		}
		ok, err := s.customers.Exists(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, &CustomerNotFoundError{ID: id}
		}
		customerID = &id
	}

	draft := &SaleDraft{
		Sale: model.SaleTransaction{
			UserID:        userID,
			BranchID:      branchID,
			CustomerID:    customerID,
			Total:         total,
			PaymentMethod: req.PaymentMethod,
			Metadata:      req.Metadata,
			Lines:         saleLines,
		},
		Decrements: decrements,
		Cash:       settlement,
	}
	return draft, names, nil
}

// ── Listing & reporting ───────────────────────────────────────────────────────

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *saleService) SalesReport(ctx context.Context, from, to time.Time) ([]dto.SaleResponse, error) {
	sales, err := s.sales.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return items, nil
}

func saleToResponse(s *model.SaleTransaction) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		name := ""
		if l.Product != nil {
			name = l.Product.Name
		}
		lines = append(lines, dto.SaleLineResponse{
			ProductID: l.ProductID.String(),
			Product:   name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	var customerID *string
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		customerID = &id
	}
	return &dto.SaleResponse{
		ID:            s.ID.String(),
		UserID:        s.UserID.String(),
		BranchID:      s.BranchID.String(),
		CustomerID:    customerID,
		Lines:         lines,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
