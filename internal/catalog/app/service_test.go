package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webshop-go/shop-backend/internal/catalog/domain"
)

type fakeRepo struct {
	created []domain.Product
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Product, error) { return nil, nil }
func (f *fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{}, ErrNotFound
}
func (f *fakeRepo) Create(ctx context.Context, p domain.Product) (string, error) {
	f.created = append(f.created, p)
	return "id-1", nil
}

func TestCreateProductValidation(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	t.Run("empty title -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.Product{Title: "   ", Price: 10, Count: 1})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero price -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.Product{Title: "Keyboard", Price: 0, Count: 1})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative count -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.Product{Title: "Keyboard", Price: 10, Count: -1})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("valid -> created", func(t *testing.T) {
		id, err := svc.CreateProduct(context.Background(), domain.Product{Title: "Keyboard", Price: 49.99, Count: 50})
		require.NoError(t, err)
		require.Equal(t, "id-1", id)
		require.Len(t, repo.created, 1)
	})
}

func TestGetProductEmptyID(t *testing.T) {
	svc := NewService(&fakeRepo{})
	_, err := svc.GetProduct(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}
