package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"github.com/cartway/shop-backend/internal/cache"
	"github.com/cartway/shop-backend/internal/domain"
	"github.com/cartway/shop-backend/internal/repository"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	sfg      singleflight.Group // prevents cache stampede on GetCart
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		cache:    cartCache,
	}
}

// GetCart returns the user's cart with product details resolved, or
// repository.ErrCartNotFound if the user never added an item.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID.Hex(), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cart cache get error: %v", err) // degraded, keep serving
		}

		cart, err = s.carts.GetCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := s.resolveProducts(ctx, cart); err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, userID, cart); err != nil {
				log.Printf("cart cache set error: %v", err)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem merges quantity into an existing line or opens a new one at the
// product's current price, creating the cart on first use. The merged
// quantity must not exceed the product's current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}
		cart = &domain.Cart{UserID: userID}
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		item := &cart.Items[idx]
		newQuantity := item.Quantity + quantity
		if newQuantity > product.Stock {
			return nil, &InsufficientStockError{Stock: product.Stock, Requested: newQuantity}
		}
		item.Quantity = newQuantity
		item.TotalPrice = float64(item.Quantity) * item.Price
	} else {
		if quantity > product.Stock {
			return nil, &InsufficientStockError{Stock: product.Stock, Requested: quantity}
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:  productID,
			Quantity:   quantity,
			Price:      product.Price,
			TotalPrice: float64(quantity) * product.Price,
		})
	}

	cart.RecalculateTotal()
	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(userID)

	return cart, nil
}

// UpdateItem sets a line's quantity outright. Zero removes the line; a
// positive quantity replaces (not merges) it, or inserts the line if absent.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}
		// No cart yet: only a positive quantity can open one.
		if quantity == 0 {
			return nil, ErrCannotCreateCart
		}
		if quantity > product.Stock {
			return nil, &InsufficientStockError{Stock: product.Stock, Requested: quantity}
		}
		cart = &domain.Cart{
			UserID: userID,
			Items: []domain.CartItem{{
				ProductID:  productID,
				Quantity:   quantity,
				Price:      product.Price,
				TotalPrice: float64(quantity) * product.Price,
			}},
		}
		cart.RecalculateTotal()
		if err := s.carts.UpsertCart(ctx, cart); err != nil {
			return nil, err
		}
		s.invalidateCache(userID)
		return cart, nil
	}

	idx := cart.FindItem(productID)
	switch {
	case idx >= 0 && quantity == 0:
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	case idx >= 0:
		if quantity > product.Stock {
			return nil, &InsufficientStockError{Stock: product.Stock, Requested: quantity}
		}
		item := &cart.Items[idx]
		item.Quantity = quantity
		item.TotalPrice = float64(quantity) * item.Price
	case quantity == 0:
		return nil, ErrItemNotInCart
	default:
		if quantity > product.Stock {
			return nil, &InsufficientStockError{Stock: product.Stock, Requested: quantity}
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:  productID,
			Quantity:   quantity,
			Price:      product.Price,
			TotalPrice: float64(quantity) * product.Price,
		})
	}

	cart.RecalculateTotal()
	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(userID)

	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.RecalculateTotal()

	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(userID)

	return cart, nil
}

// ListAll returns every cart, newest first, with product details resolved.
// Admin surface.
func (s *CartService) ListAll(ctx context.Context) ([]domain.Cart, error) {
	carts, err := s.carts.ListCarts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range carts {
		if err := s.resolveProducts(ctx, &carts[i]); err != nil {
			return nil, err
		}
	}

	return carts, nil
}

func (s *CartService) resolveProducts(ctx context.Context, cart *domain.Cart) error {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if p, ok := products[cart.Items[i].ProductID]; ok {
			resolved := p
			cart.Items[i].Product = &resolved
		}
	}

	return nil
}

func (s *CartService) invalidateCache(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cart cache invalidate error: %v", err)
	}
}
