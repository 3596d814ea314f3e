package app

import (
	"context"

	"github.com/webshop-go/shop-backend/internal/catalog/domain"
)

type ProductRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	// Create inserts the product row and its stock row, returning the
	// generated id.
	Create(ctx context.Context, p domain.Product) (string, error)
}
