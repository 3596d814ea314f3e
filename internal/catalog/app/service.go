package app

import (
	"context"
	"errors"
	"strings"

	"github.com/webshop-go/shop-backend/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{repo: repo}
}

// CreateProduct validates the caller-supplied record. Title, price and
// count are required; description defaults to empty.
func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (string, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || p.Price <= 0 || p.Count < 0 {
		return "", ErrInvalidInput
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}
