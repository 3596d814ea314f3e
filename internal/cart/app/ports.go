package app

import (
	"context"

	"github.com/webshop-go/shop-backend/internal/cart/domain"
)

type CartRepo interface {
	// GetOpenByUser returns the single OPEN cart for the user with its
	// items, or ErrNotFound.
	GetOpenByUser(ctx context.Context, userID string) (domain.Cart, error)
	// CreateOpen inserts a new empty OPEN cart. A concurrent insert for the
	// same user surfaces as ErrAlreadyExists.
	CreateOpen(ctx context.Context, userID string) (domain.Cart, error)
	// ReplaceItems deletes every item of the cart and inserts the given set
	// in a single transaction.
	ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) error
	// Delete removes the cart row and its items.
	Delete(ctx context.Context, cartID string) error
}
