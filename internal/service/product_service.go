package service

import (
	"context"
	"errors"

	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/infra"
	"github.com/elianismedina/restaurantposapi/internal/model"
	"github.com/elianismedina/restaurantposapi/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	// CheckPrice serves the public price endpoint through the Redis
	// read-through cache. Sale totals never use this path; they snapshot
	// the DB price inside the sale transaction.
	CheckPrice(ctx context.Context, id uuid.UUID) (*dto.PriceCheckResponse, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache *infra.PriceCache
}

func NewProductService(repo repository.ProductRepository, cache *infra.PriceCache) ProductService {
	return &productService{repo: repo, cache: cache}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, errors.New("invalid branch_id")
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		BranchID:    branchID,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{IDs: []uuid.UUID{id}}
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{IDs: []uuid.UUID{id}}
		}
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePrice(ctx, id)
	return productToResponse(p), nil
}

func (s *productService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidatePrice(ctx, id)
	return nil
}

func (s *productService) CheckPrice(ctx context.Context, id uuid.UUID) (*dto.PriceCheckResponse, error) {
	if s.cache != nil {
		price, err := s.cache.Get(ctx, id.String())
		if err == nil {
			return &dto.PriceCheckResponse{ProductID: id.String(), Price: price}, nil
		}
		if !errors.Is(err, infra.ErrPriceCacheMiss) {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("price cache read failed")
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{IDs: []uuid.UUID{id}}
		}
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, id.String(), p.Price); err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("price cache write failed")
		}
	}
	return &dto.PriceCheckResponse{ProductID: id.String(), Price: p.Price}, nil
}

func (s *productService) invalidatePrice(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id.String()); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("price cache invalidation failed")
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		BranchID:    p.BranchID.String(),
		Active:      p.Active,
	}
}
