package app

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	cartapp "github.com/webshop-go/shop-backend/internal/cart/app"
	cartdomain "github.com/webshop-go/shop-backend/internal/cart/domain"
	orderdomain "github.com/webshop-go/shop-backend/internal/order/domain"
)

var ErrEmptyCart = errors.New("cart is empty")

type CartService interface {
	FindByUser(ctx context.Context, userID string) (cartdomain.Cart, error)
	ClearForUser(ctx context.Context, userID string) error
}

type OrderCreator interface {
	Create(ctx context.Context, req orderdomain.CreateOrderRequest) (orderdomain.Order, error)
}

// Payload carries the caller-supplied order fields merged into the order at
// checkout time.
type Payload struct {
	Payment  orderdomain.Payment
	Delivery orderdomain.Delivery
	Comments string
}

// Service converts an open cart into an order. Not atomic: a crash between
// order creation and cart clearing leaves both alive, so the cart is only
// ever cleared after the order write succeeded.
type Service struct {
	carts  CartService
	orders OrderCreator
}

func NewService(carts CartService, orders OrderCreator) *Service {
	return &Service{carts: carts, orders: orders}
}

func (s *Service) Checkout(ctx context.Context, userID string, payload Payload) (orderdomain.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, cartapp.ErrNotFound) {
		return orderdomain.Order{}, ErrEmptyCart
	}
	if err != nil {
		return orderdomain.Order{}, err
	}
	if len(cart.Items) == 0 {
		return orderdomain.Order{}, ErrEmptyCart
	}

	order, err := s.orders.Create(ctx, orderdomain.CreateOrderRequest{
		UserID:   userID,
		CartID:   cart.ID,
		Items:    cart.Items,
		Payment:  payload.Payment,
		Delivery: payload.Delivery,
		Comments: payload.Comments,
		Total:    cart.Total(),
	})
	if err != nil {
		// The cart stays untouched when the order write fails.
		return orderdomain.Order{}, err
	}

	if err := s.carts.ClearForUser(ctx, userID); err != nil {
		return orderdomain.Order{}, pkgerrors.Wrap(err, "clear cart after checkout")
	}

	return order, nil
}
