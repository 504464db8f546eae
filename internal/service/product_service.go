package service

import (
	"context"
	"fmt"

	"bakery-storefront/internal/model"
	"bakery-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// ListMenu retrieves active products with pagination.
func (s *productService) ListMenu(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.ListActive(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list menu")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product. Hidden products are not found.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.IsActive {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// ListAll retrieves every product for the menu editor.
func (s *productService) ListAll(ctx context.Context, principal *model.Principal) ([]model.Product, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// Save validates and upserts a product. A request without an id creates one.
func (s *productService) Save(ctx context.Context, principal *model.Principal, req *model.ProductRequest) (*model.Product, error) {
	if err := requireOwner(principal); err != nil {
		return nil, err
	}
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := s.productRepo.Upsert(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Int64("price", product.Price).
		Bool("active", product.IsActive).
		Str("actor", principal.UserID).
		Msg("product saved")

	return product, nil
}

// SetActive toggles whether a product is on the public menu.
func (s *productService) SetActive(ctx context.Context, principal *model.Principal, id string, active bool) (*model.Product, error) {
	if err := requireOwner(principal); err != nil {
		return nil, err
	}

	found, err := s.productRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Bool("active", active).Msg("product visibility changed")
	return product, nil
}
