package app

import (
	"context"
	"errors"

	"github.com/webshop-go/shop-backend/internal/order/domain"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if req.UserID == "" || req.CartID == "" {
		return domain.Order{}, ErrInvalidInput
	}

	order := domain.Order{
		UserID:   req.UserID,
		CartID:   req.CartID,
		Items:    req.Items,
		Payment:  req.Payment,
		Delivery: req.Delivery,
		Comments: req.Comments,
		Status:   domain.StatusPending,
		Total:    req.Total,
	}

	return s.repo.Create(ctx, order)
}
