package app

import (
	"context"
	"errors"

	"github.com/webshop-go/shop-backend/internal/cart/domain"
)

var (
	ErrNotFound      = errors.New("cart not found")
	ErrAlreadyExists = errors.New("open cart already exists")
)

// Service owns the lifecycle of a user's open cart: find-or-create,
// full-replace update, and delete.
type Service struct {
	repo CartRepo
}

func NewService(repo CartRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	return s.repo.GetOpenByUser(ctx, userID)
}

func (s *Service) CreateForUser(ctx context.Context, userID string) (domain.Cart, error) {
	return s.repo.CreateOpen(ctx, userID)
}

// FindOrCreateForUser resolves the lost race between two first requests for
// the same user: the loser's insert hits the (user_id, status) unique index
// and is answered with a re-read of the winner's cart.
func (s *Service) FindOrCreateForUser(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return domain.Cart{}, err
	}

	cart, err = s.repo.CreateOpen(ctx, userID)
	if errors.Is(err, ErrAlreadyExists) {
		return s.repo.GetOpenByUser(ctx, userID)
	}
	return cart, err
}

// ReplaceItemsForUser swaps the cart's entire item set for the given one.
// This is a full replace, not a merge: callers submit the complete desired
// list. When the user has no open cart one is created and the supplied
// items are ignored, mirroring the update-creates-empty-cart behavior the
// HTTP contract always had.
func (s *Service) ReplaceItemsForUser(ctx context.Context, userID string, items []domain.CartItem) (domain.Cart, error) {
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return s.FindOrCreateForUser(ctx, userID)
	}
	if err != nil {
		return domain.Cart{}, err
	}

	if err := s.repo.ReplaceItems(ctx, cart.ID, items); err != nil {
		return domain.Cart{}, err
	}

	return s.repo.GetOpenByUser(ctx, userID)
}

// ClearForUser deletes the user's open cart and its items. A missing cart
// is not an error.
func (s *Service) ClearForUser(ctx context.Context, userID string) error {
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, cart.ID)
}
