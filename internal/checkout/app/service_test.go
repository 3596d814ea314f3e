package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cartapp "github.com/webshop-go/shop-backend/internal/cart/app"
	cartdomain "github.com/webshop-go/shop-backend/internal/cart/domain"
	"github.com/webshop-go/shop-backend/internal/checkout/app"
	orderdomain "github.com/webshop-go/shop-backend/internal/order/domain"
)

type fakeCarts struct {
	cart    *cartdomain.Cart
	cleared bool
}

func (f *fakeCarts) FindByUser(_ context.Context, _ string) (cartdomain.Cart, error) {
	if f.cart == nil {
		return cartdomain.Cart{}, cartapp.ErrNotFound
	}
	return *f.cart, nil
}

func (f *fakeCarts) ClearForUser(_ context.Context, _ string) error {
	f.cart = nil
	f.cleared = true
	return nil
}

type fakeOrders struct {
	created []orderdomain.Order
	fail    error
}

func (f *fakeOrders) Create(_ context.Context, req orderdomain.CreateOrderRequest) (orderdomain.Order, error) {
	if f.fail != nil {
		return orderdomain.Order{}, f.fail
	}
	o := orderdomain.Order{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		CartID:   req.CartID,
		Items:    req.Items,
		Payment:  req.Payment,
		Delivery: req.Delivery,
		Comments: req.Comments,
		Status:   orderdomain.StatusPending,
		Total:    req.Total,
	}
	f.created = append(f.created, o)
	return o, nil
}

func openCart(items ...cartdomain.CartItem) *cartdomain.Cart {
	return &cartdomain.Cart{
		ID:     uuid.NewString(),
		UserID: "u1",
		Status: cartdomain.CartStatusOpen,
		Items:  items,
	}
}

func TestCheckout_NoCart(t *testing.T) {
	carts := &fakeCarts{}
	orders := &fakeOrders{}
	svc := app.NewService(carts, orders)

	_, err := svc.Checkout(context.Background(), "u1", app.Payload{})
	require.ErrorIs(t, err, app.ErrEmptyCart)
	require.Empty(t, orders.created)
	require.False(t, carts.cleared)
}

func TestCheckout_EmptyCart(t *testing.T) {
	carts := &fakeCarts{cart: openCart()}
	orders := &fakeOrders{}
	svc := app.NewService(carts, orders)

	_, err := svc.Checkout(context.Background(), "u1", app.Payload{})
	require.ErrorIs(t, err, app.ErrEmptyCart)
	require.Empty(t, orders.created)
	require.False(t, carts.cleared)
	require.NotNil(t, carts.cart)
}

func TestCheckout_TotalAndClear(t *testing.T) {
	cart := openCart(
		cartdomain.CartItem{Product: cartdomain.PlaceholderProduct("p1"), Count: 2},
		cartdomain.CartItem{Product: cartdomain.PlaceholderProduct("p2"), Count: 3},
	)
	carts := &fakeCarts{cart: cart}
	orders := &fakeOrders{}
	svc := app.NewService(carts, orders)

	order, err := svc.Checkout(context.Background(), "u1", app.Payload{Comments: "leave at door"})
	require.NoError(t, err)

	require.Equal(t, float64(5*cartdomain.PlaceholderPrice), order.Total)
	require.Equal(t, cart.ID, order.CartID)
	require.Equal(t, "u1", order.UserID)
	require.Len(t, order.Items, 2)
	require.Equal(t, "leave at door", order.Comments)

	// Cart is gone afterwards.
	require.True(t, carts.cleared)
	_, err = carts.FindByUser(context.Background(), "u1")
	require.ErrorIs(t, err, cartapp.ErrNotFound)
}

func TestCheckout_OrderFailureLeavesCart(t *testing.T) {
	cart := openCart(cartdomain.CartItem{Product: cartdomain.PlaceholderProduct("p1"), Count: 1})
	carts := &fakeCarts{cart: cart}
	orders := &fakeOrders{fail: errors.New("storage down")}
	svc := app.NewService(carts, orders)

	_, err := svc.Checkout(context.Background(), "u1", app.Payload{})
	require.Error(t, err)
	require.NotErrorIs(t, err, app.ErrEmptyCart)

	// Fail fast, no partial mutation: the cart survives a failed order write.
	require.False(t, carts.cleared)
	require.NotNil(t, carts.cart)
}
