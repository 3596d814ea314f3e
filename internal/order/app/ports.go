package app

import (
	"context"

	"github.com/webshop-go/shop-backend/internal/order/domain"
)

type OrderRepo interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
}
