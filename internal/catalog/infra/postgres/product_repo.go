package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/webshop-go/shop-backend/internal/catalog/app"
	"github.com/webshop-go/shop-backend/internal/catalog/domain"
)

type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

type productRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Count       int       `db:"count"`
}

const selectJoined = `
SELECT p.id, p.title, p.description, p.price, COALESCE(s.count, 0) AS count
FROM products p
LEFT JOIN stock s ON s.product_id = p.id`

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, selectJoined+` ORDER BY p.title`); err != nil {
		return nil, errors.Wrap(err, "select products")
	}

	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	var row productRow
	err = r.db.GetContext(ctx, &row, selectJoined+` WHERE p.id = $1`, prodID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "select product")
	}
	return toDomain(row), nil
}

// Create writes the product and its stock row together; the original kept
// them as two separate puts, here they commit or fail as one.
func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (string, error) {
	id := uuid.New()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, title, description, price)
		VALUES ($1, $2, $3, $4)`,
		id, p.Title, p.Description, p.Price)
	if err != nil {
		return "", errors.Wrap(err, "insert product")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock (product_id, count)
		VALUES ($1, $2)`,
		id, p.Count)
	if err != nil {
		return "", errors.Wrap(err, "insert stock")
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit create product")
	}
	return id.String(), nil
}

func toDomain(row productRow) domain.Product {
	return domain.Product{
		ID:          row.ID.String(),
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
		Count:       row.Count,
	}
}
