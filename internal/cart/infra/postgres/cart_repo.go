package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/webshop-go/shop-backend/internal/cart/app"
	"github.com/webshop-go/shop-backend/internal/cart/domain"
)

type CartRepo struct {
	db *sqlx.DB
}

func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{db: db}
}

type cartRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    string    `db:"user_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type cartItemRow struct {
	ID        uuid.UUID `db:"id"`
	CartID    uuid.UUID `db:"cart_id"`
	ProductID string    `db:"product_id"`
	Count     int       `db:"count"`
}

const selectOpenCart = `
SELECT id, user_id, status, created_at, updated_at
FROM carts
WHERE user_id = $1 AND status = 'OPEN'`

const selectCartItems = `
SELECT id, cart_id, product_id, count
FROM cart_items
WHERE cart_id = $1
ORDER BY id`

func (r *CartRepo) GetOpenByUser(ctx context.Context, userID string) (domain.Cart, error) {
	var row cartRow
	if err := r.db.GetContext(ctx, &row, selectOpenCart, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Cart{}, app.ErrNotFound
		}
		return domain.Cart{}, errors.Wrap(err, "select open cart")
	}

	var itemRows []cartItemRow
	if err := r.db.SelectContext(ctx, &itemRows, selectCartItems, row.ID); err != nil {
		return domain.Cart{}, errors.Wrap(err, "select cart items")
	}

	return toDomain(row, itemRows), nil
}

func (r *CartRepo) CreateOpen(ctx context.Context, userID string) (domain.Cart, error) {
	var row cartRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO carts (id, user_id, status)
		VALUES ($1, $2, 'OPEN')
		RETURNING id, user_id, status, created_at, updated_at`,
		uuid.New(), userID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Cart{}, app.ErrAlreadyExists
		}
		return domain.Cart{}, errors.Wrap(err, "insert cart")
	}
	return toDomain(row, nil), nil
}

// ReplaceItems runs the delete-then-insert swap in one transaction so no
// reader observes a transiently empty cart.
func (r *CartRepo) ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return errors.Wrap(err, "parse cart id")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartUUID); err != nil {
		return errors.Wrap(err, "delete cart items")
	}

	for _, it := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (id, cart_id, product_id, count)
			VALUES ($1, $2, $3, $4)`,
			uuid.New(), cartUUID, it.Product.ID, it.Count)
		if err != nil {
			return errors.Wrap(err, "insert cart item")
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartUUID); err != nil {
		return errors.Wrap(err, "touch cart")
	}

	return errors.Wrap(tx.Commit(), "commit replace items")
}

func (r *CartRepo) Delete(ctx context.Context, cartID string) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return errors.Wrap(err, "parse cart id")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartUUID); err != nil {
		return errors.Wrap(err, "delete cart items")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartUUID); err != nil {
		return errors.Wrap(err, "delete cart")
	}

	return errors.Wrap(tx.Commit(), "commit delete cart")
}

func toDomain(row cartRow, itemRows []cartItemRow) domain.Cart {
	items := make([]domain.CartItem, 0, len(itemRows))
	for _, it := range itemRows {
		items = append(items, domain.CartItem{
			Product: domain.PlaceholderProduct(it.ProductID),
			Count:   it.Count,
		})
	}

	return domain.Cart{
		ID:        row.ID.String(),
		UserID:    row.UserID,
		Status:    domain.CartStatus(row.Status),
		Items:     items,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
