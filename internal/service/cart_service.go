package service

import (
	"context"
	"fmt"

	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	store       cart.Store
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store cart.Store, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, token string) (*cart.Cart, error) {
	return s.store.Get(ctx, token)
}

// AddItem snapshots the current menu entry into the cart.
func (s *cartService) AddItem(ctx context.Context, token string, req *model.CartItemRequest) (*cart.Cart, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, model.ErrProductNotFound
	}

	c, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	c.AddN(*product, qty)

	if err := s.store.Save(ctx, token, c); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("product_id", product.ID).Int("quantity", qty).Msg("added to cart")
	return c, nil
}

// SetQuantity changes a line quantity; zero removes the line.
func (s *cartService) SetQuantity(ctx context.Context, token, productID string, req *model.CartQuantityRequest) (*cart.Cart, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !c.SetQuantity(productID, req.Quantity) {
		return nil, model.ErrProductNotFound
	}

	if err := s.store.Save(ctx, token, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartService) RemoveItem(ctx context.Context, token, productID string) (*cart.Cart, error) {
	c, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !c.Remove(productID) {
		return nil, model.ErrProductNotFound
	}

	if err := s.store.Save(ctx, token, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartService) Clear(ctx context.Context, token string) error {
	return s.store.Delete(ctx, token)
}
