package tests

import (
	"context"
	"sync"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/model"
	"github.com/elianismedina/restaurantposapi/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stubs implementing the repository interfaces. The Tx methods
// receive a nil *gorm.DB from runTx in unit-test mode; the stubs guard
// shared state with a mutex so the conditional-decrement race tests are
// meaningful.

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) seed(name string, price float64, stock int) *model.Product {
	p := &model.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Stock:    stock,
		BranchID: uuid.New(),
		Active:   true,
	}
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return 0, nil
	}
	p.Stock -= qty
	return 1, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Sales ────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.SaleTransaction
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.SaleTransaction)}
}

func (r *stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.SaleTransaction) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	for i := range s.Lines {
		if s.Lines[i].ID == uuid.Nil {
			s.Lines[i].ID = uuid.New()
		}
		s.Lines[i].SaleTransactionID = s.ID
	}
	r.mu.Lock()
	r.sales[s.ID] = s
	r.mu.Unlock()
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SaleTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.SaleTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.SaleTransaction, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListByPeriod(_ context.Context, from, to time.Time) ([]model.SaleTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.SaleTransaction, 0)
	for _, s := range r.sales {
		if !s.CreatedAt.Before(from) && !s.CreatedAt.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Registers & movements ────────────────────────────────────────────────────

type stubRegisterRepo struct {
	mu        sync.Mutex
	byUser    map[uuid.UUID]*model.CashRegister
	byID      map[uuid.UUID]*model.CashRegister
	movements []model.CashMovement
}

func newStubRegisterRepo() *stubRegisterRepo {
	return &stubRegisterRepo{
		byUser: make(map[uuid.UUID]*model.CashRegister),
		byID:   make(map[uuid.UUID]*model.CashRegister),
	}
}

func (r *stubRegisterRepo) Create(_ context.Context, reg *model.CashRegister) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUser[reg.UserID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	reg.CreatedAt = time.Now()
	r.byUser[reg.UserID] = reg
	r.byID[reg.ID] = reg
	return nil
}

func (r *stubRegisterRepo) FindByUser(_ context.Context, userID uuid.UUID) (*model.CashRegister, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reg, nil
}

func (r *stubRegisterRepo) FindByUserTx(_ *gorm.DB, userID uuid.UUID) (*model.CashRegister, error) {
	return r.FindByUser(context.Background(), userID)
}

func (r *stubRegisterRepo) CreateTx(_ *gorm.DB, reg *model.CashRegister) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUser[reg.UserID]; exists {
		// ON CONFLICT DO NOTHING: ID stays uuid.Nil, caller re-reads
		return nil
	}
	reg.ID = uuid.New()
	r.byUser[reg.UserID] = reg
	r.byID[reg.ID] = reg
	return nil
}

func (r *stubRegisterRepo) AddBalanceTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	reg.Balance = reg.Balance.Add(delta)
	return 1, nil
}

func (r *stubRegisterRepo) ResetBalanceTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.byID[id]; ok {
		reg.Balance = decimal.Zero
	}
	return nil
}

func (r *stubRegisterRepo) CreateMovementTx(_ *gorm.DB, m *model.CashMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubRegisterRepo) FindMovementBySale(_ context.Context, saleID uuid.UUID) (*model.CashMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		if r.movements[i].SaleTransactionID == saleID {
			return &r.movements[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRegisterRepo) ListMovements(_ context.Context, registerID uuid.UUID) ([]model.CashMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.CashMovement, 0)
	for _, m := range r.movements {
		if m.CashRegisterID == registerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubRegisterRepo) SumMovements(_ context.Context, registerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, m := range r.movements {
		if m.CashRegisterID != registerID {
			continue
		}
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		total = total.Add(m.AmountTendered.Sub(m.ChangeGiven))
	}
	return total, nil
}

func (r *stubRegisterRepo) DB() *gorm.DB { return nil }

var _ repository.RegisterRepository = (*stubRegisterRepo)(nil)

// ── Closings ─────────────────────────────────────────────────────────────────

type stubClosingRepo struct {
	mu       sync.Mutex
	closings []model.DailyClosing
}

func (r *stubClosingRepo) CreateTx(_ *gorm.DB, c *model.DailyClosing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.closings = append(r.closings, *c)
	return nil
}

func (r *stubClosingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DailyClosing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.closings {
		if r.closings[i].ID == id {
			return &r.closings[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClosingRepo) ListByRegister(_ context.Context, registerID uuid.UUID) ([]model.DailyClosing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.DailyClosing, 0)
	for _, c := range r.closings {
		if c.CashRegisterID == registerID {
			out = append(out, c)
		}
	}
	return out, nil
}

var _ repository.ClosingRepository = (*stubClosingRepo)(nil)

// ── Customers ────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.mu.Lock()
	r.customers[c.ID] = c
	r.mu.Unlock()
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.customers[id]
	return ok, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)
